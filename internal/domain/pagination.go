package domain

// Pagination constants
const (
	PageSize       = 3
	MaxPageButtons = 5
)

// TotalPages returns ceil(n / PageSize).
func TotalPages(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// ClampPage keeps page inside [1, totalPages]. With no pages it returns 1.
func ClampPage(page, totalPages int) int {
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// PageWindow returns the page numbers to render as buttons: all of them
// when there are few, otherwise a run of MaxPageButtons pinned to the
// start, the end, or centred on current.
func PageWindow(current, totalPages int) []int {
	if totalPages <= 0 {
		return nil
	}

	start := 1
	count := MaxPageButtons
	switch {
	case totalPages <= MaxPageButtons:
		count = totalPages
	case current <= 3:
		start = 1
	case current >= totalPages-2:
		start = totalPages - MaxPageButtons + 1
	default:
		start = current - 2
	}

	pages := make([]int, count)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

// TransactionPage is one page sliced out of a full snapshot.
type TransactionPage struct {
	Items      []*Transaction
	Number     int
	TotalPages int
	Total      int
}

// Paginate slices page (1-based, clamped) out of all.
func Paginate(all []*Transaction, page int) *TransactionPage {
	total := len(all)
	totalPages := TotalPages(total)
	page = ClampPage(page, totalPages)

	start := (page - 1) * PageSize
	end := min(start+PageSize, total)

	return &TransactionPage{
		Items:      all[start:end],
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}
}

// HasPrev reports whether a previous page exists.
func (p *TransactionPage) HasPrev() bool { return p.Number > 1 }

// HasNext reports whether a next page exists.
func (p *TransactionPage) HasNext() bool { return p.Number < p.TotalPages }

// ShowControls reports whether pagination controls are needed at all.
func (p *TransactionPage) ShowControls() bool { return p.Total > PageSize }

// Window returns the page buttons for this page.
func (p *TransactionPage) Window() []int { return PageWindow(p.Number, p.TotalPages) }

// First is the 1-based position of the first item on the page.
func (p *TransactionPage) First() int {
	if p.Total == 0 {
		return 0
	}
	return (p.Number-1)*PageSize + 1
}

// Last is the 1-based position of the last item on the page.
func (p *TransactionPage) Last() int {
	return min(p.Number*PageSize, p.Total)
}

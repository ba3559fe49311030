package handler

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/porket/internal/domain"
	"github.com/iho/porket/internal/usecase"
)

// UIConfig holds dependencies for the UIHandler.
type UIConfig struct {
	Transactions TransactionService
	Reports      ReportService
	Clock        usecase.Clock
	IDGen        usecase.IDGenerator
	Formats      []domain.ExportFormat
	Templates    fs.FS
}

// UIHandler renders the dashboard and its htmx partials. Every partial
// loads its own data.
type UIHandler struct {
	transactions TransactionService
	reports      ReportService
	clock        usecase.Clock
	idGen        usecase.IDGenerator
	formats      []domain.ExportFormat
	tmpl         *template.Template
}

// NewUIHandler parses the templates and creates a new UIHandler.
func NewUIHandler(cfg UIConfig) (*UIHandler, error) {
	h := &UIHandler{
		transactions: cfg.Transactions,
		reports:      cfg.Reports,
		clock:        cfg.Clock,
		idGen:        cfg.IDGen,
		formats:      cfg.Formats,
	}

	tmpl, err := template.New("porket").
		Funcs(h.templateFuncs()).
		ParseFS(cfg.Templates, "templates/*.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	h.tmpl = tmpl

	return h, nil
}

func (h *UIHandler) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money":       formatMoney,
		"balance":     formatBalance,
		"signed":      formatSignedAmount,
		"percent":     formatPercent,
		"pluralize":   pluralize,
		"upper":       strings.ToUpper,
		"isExpense":   func(k domain.Kind) bool { return k == domain.KindExpense },
		"isNegative":  func(s *domain.MonthlySummary) bool { return s.NetBalance.IsNegative() },
		"dateLabel":   func(d time.Time) string { return formatDateLabel(d, h.clock.Now()) },
		"isoDate":     func(d time.Time) string { return d.Format(domain.DateLayout) },
		"prevPage":    func(p *domain.TransactionPage) int { return p.Number - 1 },
		"nextPage":    func(p *domain.TransactionPage) int { return p.Number + 1 },
		"derefString": derefString,
	}
}

// FormView is the data of the transaction form partial.
type FormView struct {
	Today          string
	DefaultKind    domain.Kind
	IdempotencyKey string
}

// ListView is the data of the transaction list partial.
type ListView struct {
	Page   *domain.TransactionPage
	Failed bool
}

// SummaryView is the data of the monthly summary partial.
type SummaryView struct {
	Summary *domain.MonthlySummary
	Failed  bool
}

// ChartView is the data of the expense chart partial.
type ChartView struct {
	Breakdown *domain.CategoryBreakdown
	Slices    []PieSlice
	Failed    bool
}

// IndexView is the data of the full dashboard page.
type IndexView struct {
	Form    FormView
	List    ListView
	Summary SummaryView
	Chart   ChartView
	Formats []domain.ExportFormat
}

// Index renders the dashboard, loading the three read views concurrently.
func (h *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	view := IndexView{
		Form:    h.formView(),
		Formats: h.formats,
	}

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		view.List = h.listView(ctx, 1)
		return nil
	})
	g.Go(func() error {
		view.Summary = h.summaryView(ctx)
		return nil
	})
	g.Go(func() error {
		view.Chart = h.chartView(ctx)
		return nil
	})
	_ = g.Wait()

	h.render(w, r, "index", view, http.StatusOK)
}

// Form renders a fresh transaction form.
func (h *UIHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "form", h.formView(), http.StatusOK)
}

// CreateTransaction handles the form submit. Success re-renders a fresh
// form and announces the change; failure raises an alert and keeps the
// submitted form on screen.
func (h *UIHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	if err := r.ParseForm(); err != nil {
		logger.Warn().Err(err).Msg("invalid transaction form")
		h.alert(w, http.StatusBadRequest, AlertCreateFailed)
		return
	}

	out, err := h.transactions.CreateTransaction(r.Context(), usecase.CreateTransactionInput{
		Kind:       r.PostForm.Get("kind"),
		Amount:     r.PostForm.Get("amount"),
		Category:   r.PostForm.Get("category"),
		Note:       r.PostForm.Get("note"),
		OccurredAt: r.PostForm.Get("occurred_at"),
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to add transaction")
		h.alert(w, mapDomainError(err), AlertCreateFailed)
		return
	}

	newHTMXResponse().Changed(EventTransactionsCreated, out.Event.Sequence).Apply(w)
	h.render(w, r, "form", h.formView(), http.StatusOK)
}

// List renders one page of the transaction list.
func (h *UIHandler) List(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "list", h.listView(r.Context(), parseIntQuery(r, "page", 1)), http.StatusOK)
}

// DeleteTransaction deletes one row and re-renders the list, clamping the
// page when the last row of the last page went away.
func (h *UIHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())
	id := chi.URLParam(r, "id")

	event, err := h.transactions.DeleteTransaction(r.Context(), id)
	if err != nil {
		logger.Error().Err(err).Str("transaction_id", id).Msg("failed to delete transaction")
		h.alert(w, mapDomainError(err), AlertDeleteFailed)
		return
	}

	newHTMXResponse().Changed(EventTransactionsDeleted, event.Sequence).Apply(w)
	h.render(w, r, "list", h.listView(r.Context(), parseIntQuery(r, "page", 1)), http.StatusOK)
}

// Summary renders the monthly summary cards.
func (h *UIHandler) Summary(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "summary", h.summaryView(r.Context()), http.StatusOK)
}

// Chart renders the expense donut and legend.
func (h *UIHandler) Chart(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "chart", h.chartView(r.Context()), http.StatusOK)
}

func (h *UIHandler) formView() FormView {
	return FormView{
		Today:          h.clock.Now().Format(domain.DateLayout),
		DefaultKind:    domain.KindExpense,
		IdempotencyKey: h.idGen.Generate(),
	}
}

func (h *UIHandler) listView(ctx context.Context, page int) ListView {
	p, err := h.transactions.ListTransactions(ctx, usecase.ListTransactionsInput{Page: page})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to load transactions")
		return ListView{Failed: true}
	}
	return ListView{Page: p}
}

func (h *UIHandler) summaryView(ctx context.Context) SummaryView {
	s, err := h.reports.MonthlySummary(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to load monthly summary")
		return SummaryView{Failed: true}
	}
	return SummaryView{Summary: s}
}

func (h *UIHandler) chartView(ctx context.Context) ChartView {
	b, err := h.reports.CategoryBreakdown(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to load category breakdown")
		return ChartView{Failed: true}
	}
	return ChartView{Breakdown: b, Slices: buildPieSlices(b.Slices)}
}

func (h *UIHandler) alert(w http.ResponseWriter, status int, message string) {
	newHTMXResponse().Alert(message).Apply(w)
	w.WriteHeader(status)
}

func (h *UIHandler) render(w http.ResponseWriter, r *http.Request, name string, data any, status int) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("template", name).Msg("failed to render template")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// HTMX event names emitted through the HX-Trigger header.
const (
	EventTransactionsCreated = "transactions:created"
	EventTransactionsDeleted = "transactions:deleted"
	EventAlert               = "porket:alert"
)

// User-facing alert messages.
const (
	AlertCreateFailed = "Failed to add transaction"
	AlertDeleteFailed = "Failed to delete transaction. Please try again."
)

// htmxResponse builds HX-* response headers for a partial.
type htmxResponse struct {
	triggers map[string]any
	reswap   string
	sequence uint64
}

func newHTMXResponse() *htmxResponse {
	return &htmxResponse{triggers: make(map[string]any)}
}

// Trigger adds a named event with data to the HX-Trigger header.
func (b *htmxResponse) Trigger(name string, data any) *htmxResponse {
	b.triggers[name] = data
	return b
}

// Changed announces a change with its sequence number.
func (b *htmxResponse) Changed(name string, sequence uint64) *htmxResponse {
	b.sequence = max(b.sequence, sequence)
	return b.Trigger(name, map[string]uint64{"sequence": sequence})
}

// Alert raises a blocking browser alert and leaves the page untouched.
func (b *htmxResponse) Alert(message string) *htmxResponse {
	b.reswap = "none"
	return b.Trigger(EventAlert, map[string]string{"message": message})
}

// Apply sets the headers. It must run before WriteHeader.
func (b *htmxResponse) Apply(w http.ResponseWriter) {
	if b.sequence > 0 {
		w.Header().Set(ChangeSequenceHeader, strconv.FormatUint(b.sequence, 10))
	}
	if b.reswap != "" {
		w.Header().Set("HX-Reswap", b.reswap)
	}
	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}
}

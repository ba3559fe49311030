package middleware

import (
	"encoding/json"
	"net/http"
)

// Alert texts for htmx writes rejected before they reach a handler. They
// match the messages the UI handler raises for the same actions.
const (
	AlertCreateFailed = "Failed to add transaction"
	AlertDeleteFailed = "Failed to delete transaction. Please try again."

	alertEvent = "porket:alert"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// alertHTMX makes the browser raise a blocking alert for a rejected htmx
// request and leave the page as it is. Other requests are untouched.
func alertHTMX(w http.ResponseWriter, r *http.Request) {
	if !isHTMX(r) {
		return
	}

	message := AlertCreateFailed
	if r.Method == http.MethodDelete {
		message = AlertDeleteFailed
	}

	trigger, err := json.Marshal(map[string]map[string]string{
		alertEvent: {"message": message},
	})
	if err != nil {
		return
	}

	w.Header().Set("HX-Trigger", string(trigger))
	w.Header().Set("HX-Reswap", "none")
}

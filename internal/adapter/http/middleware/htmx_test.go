package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// alertMessage decodes the porket:alert message from an HX-Trigger header.
func alertMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	raw := rr.Header().Get("HX-Trigger")
	require.NotEmpty(t, raw, "expected an HX-Trigger header")

	var triggers map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &triggers))
	return triggers[alertEvent]["message"]
}

func TestAlertHTMX(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		htmx    bool
		message string
	}{
		{name: "form submit", method: http.MethodPost, htmx: true, message: AlertCreateFailed},
		{name: "row delete", method: http.MethodDelete, htmx: true, message: AlertDeleteFailed},
		{name: "api client", method: http.MethodPost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/ui/transactions", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rr := httptest.NewRecorder()

			alertHTMX(rr, req)

			if !tt.htmx {
				assert.Empty(t, rr.Header().Get("HX-Trigger"))
				assert.Empty(t, rr.Header().Get("HX-Reswap"))
				return
			}
			assert.Equal(t, tt.message, alertMessage(t, rr))
			assert.Equal(t, "none", rr.Header().Get("HX-Reswap"))
		})
	}
}

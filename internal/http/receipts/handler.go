package receipts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler fakes the draft commit endpoint. It parses the multipart payload
// the same way the real backend would, so integration tests can assert on
// the indexed line-item encoding.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/receipts", h.create)
}

type createResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

var lineItemField = regexp.MustCompile(`^line_items\[(\d+)\]\[([a-z_]+)\]$`)

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, createResponse{Message: err.Error()})
		return
	}

	var missing []string

	for _, field := range []string{"vendor_name", "date", "total_amount"} {
		if strings.TrimSpace(r.FormValue(field)) == "" {
			missing = append(missing, field)
		}
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["receipt_image"]) == 0 {
		missing = append(missing, "receipt_image")
	}

	if len(missing) > 0 {
		writeJSON(w, http.StatusOK, createResponse{
			Message: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		})

		return
	}

	items := make(map[string]map[string]string)

	for name, values := range r.MultipartForm.Value {
		m := lineItemField.FindStringSubmatch(name)
		if m == nil || len(values) == 0 {
			continue
		}

		if items[m[1]] == nil {
			items[m[1]] = make(map[string]string)
		}

		items[m[1]][m[2]] = values[0]
	}

	slog.Info("stub receipt committed",
		"vendor", r.FormValue("vendor_name"),
		"total", r.FormValue("total_amount"),
		"auto_analyze", r.FormValue("auto_analyze"),
		"line_items", len(items))

	writeJSON(w, http.StatusCreated, createResponse{
		Success: true,
		Message: fmt.Sprintf("receipt recorded with %d line items", len(items)),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

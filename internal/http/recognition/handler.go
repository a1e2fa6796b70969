package recognition

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jpcarvalho/recibo/internal/category"
	"github.com/jpcarvalho/recibo/internal/http/categories"
)

// Handler fakes the recognition side of the remote API: connection checks,
// receipt OCR and AI category suggestions. Suggestions read and write the
// shared category store so the create-then-reload flow behaves like the
// real service.
type Handler struct {
	store      *categories.Store
	authorized map[string]bool
}

// NewHandler builds the stub. authorized maps backend identifiers to
// whether their API key should be treated as valid; unknown backends fail
// with an authentication error.
func NewHandler(store *categories.Store, authorized map[string]bool) *Handler {
	return &Handler{store: store, authorized: authorized}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/check-api-connection", h.check)
	r.Post("/ocr-receipt", h.ocr)
	r.Post("/suggest-category", h.suggest)
}

type statusResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	model := r.URL.Query().Get("model")

	if !h.authorized[model] {
		writeJSON(w, http.StatusOK, statusResponse{
			Message:   fmt.Sprintf("API key for %s is missing or invalid", model),
			ErrorType: "authentication",
		})

		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Success: true,
		Message: fmt.Sprintf("%s API is connected", model),
	})
}

type lineItemResponse struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	ObjectType  string  `json:"object_type,omitempty"`
	Category    string  `json:"category,omitempty"`
}

type receiptDataResponse struct {
	VendorName  string             `json:"vendor_name"`
	Date        string             `json:"date"`
	TotalAmount float64            `json:"total_amount"`
	Description string             `json:"description"`
	LineItems   []lineItemResponse `json:"line_items,omitempty"`
}

type ocrResponse struct {
	Success     bool                 `json:"success"`
	Error       string               `json:"error,omitempty"`
	ErrorType   string               `json:"error_type,omitempty"`
	ReceiptData *receiptDataResponse `json:"receipt_data,omitempty"`
}

func (h *Handler) ocr(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, ocrResponse{Error: err.Error()})
		return
	}

	file, header, err := r.FormFile("receipt_image")
	if err != nil {
		writeJSON(w, http.StatusOK, ocrResponse{Error: "no receipt image uploaded"})
		return
	}
	defer file.Close()

	model := r.FormValue("ai_model")
	if !h.authorized[model] {
		writeJSON(w, http.StatusOK, ocrResponse{
			Error:     fmt.Sprintf("API key for %s is missing or invalid", model),
			ErrorType: "authentication",
		})

		return
	}

	slog.Info("stub recognition", "file", header.Filename, "model", model,
		"auto_analyze", r.FormValue("auto_analyze"))

	data := &receiptDataResponse{
		VendorName:  "Acme Office Supply",
		Date:        time.Now().Format(time.DateOnly),
		Description: "Office restock",
	}

	if r.FormValue("auto_analyze") == "true" {
		data.LineItems = []lineItemResponse{
			{Description: "Laser printer", Quantity: 1, UnitPrice: 249.99, TotalPrice: 249.99, ObjectType: "asset", Category: "Electronics"},
			{Description: "Copy paper A4", Quantity: 5, UnitPrice: 4.50, TotalPrice: 22.50, ObjectType: "consumable", Category: "Office Supplies"},
			{Description: "Toner cartridge", Quantity: 2, UnitPrice: 39.90, TotalPrice: 79.80, ObjectType: "consumable"},
		}
	}

	var total float64
	for _, item := range data.LineItems {
		total += item.TotalPrice
	}

	if total == 0 {
		total = 352.29
	}

	data.TotalAmount = total

	writeJSON(w, http.StatusOK, ocrResponse{Success: true, ReceiptData: data})
}

type suggestRequest struct {
	Description string   `json:"description"`
	ObjectType  string   `json:"object_type"`
	Amount      *float64 `json:"amount,omitempty"`
	Vendor      string   `json:"vendor,omitempty"`
}

type suggestResponse struct {
	Success           bool               `json:"success"`
	Error             string             `json:"error,omitempty"`
	AllCategories     []categoryResponse `json:"all_categories"`
	CreatedCategories []categoryResponse `json:"created_categories"`
}

type categoryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

var titleCaser = cases.Title(language.English)

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, suggestResponse{Error: err.Error()})
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		writeJSON(w, http.StatusOK, suggestResponse{Error: "description is required"})
		return
	}

	objectType := category.ParseObjectType(req.ObjectType)
	existing := h.store.List(objectType)

	ranked := rank(existing, req.Description)

	var created []category.Category

	if len(ranked) == 0 || !matches(ranked[0], req.Description) {
		// Nothing convincing in the catalog; invent one the way the real
		// service would and persist it before answering.
		c := category.Category{
			Name:        titleCaser.String(firstWord(req.Description)),
			Description: fmt.Sprintf("Auto-created for %q", req.Description),
			Icon:        "tag",
			Color:       "#6c757d",
		}

		if err := h.store.Add(objectType, c); err == nil {
			created = append(created, c)
			ranked = append([]category.Category{c}, ranked...)
		}
	}

	resp := suggestResponse{
		Success:           true,
		AllCategories:     toResponse(ranked),
		CreatedCategories: toResponse(created),
	}

	writeJSON(w, http.StatusOK, resp)
}

func toResponse(cats []category.Category) []categoryResponse {
	out := make([]categoryResponse, len(cats))
	for i, c := range cats {
		out[i] = categoryResponse{
			Name:        c.Name,
			Description: c.Description,
			Icon:        c.Icon,
			Color:       c.Color,
		}
	}

	return out
}

// rank orders catalog entries by naive word overlap with the description,
// best first.
func rank(cats []category.Category, description string) []category.Category {
	type scored struct {
		c     category.Category
		score int
	}

	words := strings.Fields(strings.ToLower(description))
	all := make([]scored, len(cats))

	for i, c := range cats {
		haystack := strings.ToLower(c.Name + " " + c.Description)

		s := scored{c: c}
		for _, word := range words {
			if strings.Contains(haystack, word) {
				s.score++
			}
		}

		all[i] = s
	}

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[j].score > all[i].score {
				all[i], all[j] = all[j], all[i]
			}
		}
	}

	out := make([]category.Category, len(all))
	for i, s := range all {
		out[i] = s.c
	}

	return out
}

func matches(c category.Category, description string) bool {
	haystack := strings.ToLower(c.Name + " " + c.Description)
	for _, word := range strings.Fields(strings.ToLower(description)) {
		if strings.Contains(haystack, word) {
			return true
		}
	}

	return false
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return "Misc"
	}

	return fields[0]
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

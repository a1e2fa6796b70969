package categories

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jpcarvalho/recibo/internal/category"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{objectType}", h.list)
	r.Post("/", h.create)
}

type categoryResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type listResponse struct {
	Success    bool               `json:"success"`
	Categories []categoryResponse `json:"categories"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	objectType := category.ParseObjectType(chi.URLParam(r, "objectType"))

	cats := h.store.List(objectType)
	resp := listResponse{Success: true, Categories: make([]categoryResponse, len(cats))}

	for i, c := range cats {
		resp.Categories[i] = categoryResponse{
			Name:        c.Name,
			Description: c.Description,
			Icon:        c.Icon,
			Color:       c.Color,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type createRequest struct {
	Name        string `json:"name"`
	ObjectType  string `json:"object_type"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type createResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, createResponse{Message: err.Error()})
		return
	}

	err := h.store.Add(category.ParseObjectType(req.ObjectType), category.Category{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		writeJSON(w, http.StatusOK, createResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, createResponse{Success: true})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jpcarvalho/recibo/internal/http/categories"
	"github.com/jpcarvalho/recibo/internal/http/receipts"
	"github.com/jpcarvalho/recibo/internal/http/recognition"
)

// New assembles the stub of the remote recognition/category API used for
// local development and integration tests.
func New(
	categoriesV1 *categories.Handler,
	recognitionV1 *recognition.Handler,
	receiptsV1 *receipts.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api", func(r chi.Router) {
		r.Route("/categories", categoriesV1.Routes)
		recognitionV1.Routes(r)
		receiptsV1.Routes(r)
	})

	return router
}

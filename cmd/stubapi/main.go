package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/jpcarvalho/recibo/internal/backend"
	"github.com/jpcarvalho/recibo/internal/config"
	reciboHttp "github.com/jpcarvalho/recibo/internal/http"
	"github.com/jpcarvalho/recibo/internal/http/categories"
	"github.com/jpcarvalho/recibo/internal/http/receipts"
	"github.com/jpcarvalho/recibo/internal/http/recognition"
)

// stubapi serves an in-memory fake of the remote recognition/category API
// so the intake TUI can run without real AI credentials.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store := categories.Seeded()

	authorized := map[string]bool{
		backend.ModelClaude: os.Getenv("STUB_DENY_CLAUDE") == "",
		backend.ModelOpenAI: os.Getenv("STUB_DENY_OPENAI") == "",
	}

	router := reciboHttp.New(
		categories.NewHandler(store),
		recognition.NewHandler(store, authorized),
		receipts.NewHandler(),
	)

	slog.Info("starting stub backend", "addr", cfg.ListenAddr())

	if err := http.ListenAndServe(cfg.ListenAddr(), router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

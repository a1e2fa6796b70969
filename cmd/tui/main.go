package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/jpcarvalho/recibo/cmd/tui/internal/view"
	"github.com/jpcarvalho/recibo/internal/backend"
	"github.com/jpcarvalho/recibo/internal/category"
	"github.com/jpcarvalho/recibo/internal/config"
	"github.com/jpcarvalho/recibo/internal/connectivity"
	"github.com/jpcarvalho/recibo/internal/lineitems"
	"github.com/jpcarvalho/recibo/internal/receipt"
	"github.com/jpcarvalho/recibo/internal/submission"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	monitor := connectivity.NewMonitor(client)
	catalog := category.NewCatalog(client)
	engine := category.NewEngine(client, catalog)

	table := lineitems.NewTable(catalog, engine, category.StaggerPolicy{
		BaseDelay: cfg.Suggest.StaggerBase,
		MaxDelay:  cfg.Suggest.StaggerMax,
	})

	orch := receipt.NewOrchestrator(client, receipt.NewDraft(), cfg.Backend.Model)
	gate := submission.NewGate(client)

	model := view.NewIntakeModel(cfg, monitor, orch, table, gate)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		slog.Error("program failed", "error", err)
		os.Exit(1)
	}
}

package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/shandysiswandi/gobank/internal/ledger"
)

func (a *App) initModules() {
	mod, err := ledger.New(ledger.Dependency{
		Config:  a.config,
		Router:  a.router,
		Context: a.ctx,
		ID:      a.uuid,
		In:      a.in,
		Out:     a.out,
	})
	if err != nil {
		slog.Error("failed to init module ledger", "error", err)
		os.Exit(1)
	}

	a.ledger = mod
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}
	a.closerFn["Ledger"] = mod.Close
}

package app

import (
	"context"
	"io"
	"net/http"

	"github.com/shandysiswandi/gobank/internal/ledger"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gobank/internal/pkg/pkglog"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gobank/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID // console session IDs
	goroutine *pkgroutine.Manager
	logFile   io.WriteCloser

	// console
	in  io.Reader
	out io.Writer

	// modules
	ledger *ledger.Module

	// server, nil unless server.enabled
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

// New wires the application reading the console from in and writing it to out.
func New(in io.Reader, out io.Writer) *App {
	pkglog.InitLogging(pkglog.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		in:     in,
		out:    out,
	}

	app.initConfig()
	app.initLogging()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}

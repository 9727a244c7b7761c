package app

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gobank/internal/pkg/pkglog"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/gobank/internal/pkg/pkguid"
)

const envPrefix = "BANK"

//nolint:gochecknoglobals // read-only defaults
var defaults = map[string]any{
	"app.name":                    "gobank",
	"log.level":                   "info",
	"log.path":                    "bank.log",
	"storage.dir":                 ".",
	"storage.atomic_write":        false,
	"auth.official.password":      "password",
	"auth.official.password_hash": "",
	"audit.enabled":               true,
	"audit.workers":               2,
	"audit.max_retries":           3,
	"audit.path":                  "audit.log",
	"server.enabled":              false,
	"server.address":              ":8080",
}

func (a *App) initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	path := "./config/config.yaml"
	if p := os.Getenv(envPrefix + "_CONFIG"); p != "" {
		path = p
	}

	cfg, err := pkgconfig.NewViper(path, pkgconfig.Options{
		EnvPrefix: envPrefix,
		Defaults:  defaults,
		Optional:  true,
	})
	if err != nil {
		slog.Error("failed to init config", "path", path, "error", err)
		os.Exit(1)
	}

	a.config = cfg
}

// initLogging moves the logs off stdout, which belongs to the console.
func (a *App) initLogging() {
	w, err := pkglog.OpenLogFile(a.config.GetString("log.path"))
	if err != nil {
		slog.Error("failed to open log file", "path", a.config.GetString("log.path"), "error", err)
		os.Exit(1)
	}

	a.logFile = w
	pkglog.InitLogging(pkglog.Options{
		Writer:  w,
		Level:   a.config.GetString("log.level"),
		Service: a.config.GetString("app.name"),
	})
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(10)
	a.uuid = pkguid.NewPrefixedUUID("cli-")
}

func (a *App) initHTTPServer() {
	if !a.config.GetBool("server.enabled") {
		return
	}

	a.router = pkgrouter.NewRouter(pkguid.NewPrefixedUUID("http-"), a.config.GetString("app.name"))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", pkgrouter.HeaderCorrelationID},
		ExposedHeaders: []string{pkgrouter.HeaderCorrelationID},
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	if a.httpServer != nil {
		a.closerFn["HTTP Server"] = func(ctx context.Context) error {
			return a.httpServer.Shutdown(ctx)
		}
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
}

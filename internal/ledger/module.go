package ledger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/shandysiswandi/gobank/internal/ledger/auth"
	"github.com/shandysiswandi/gobank/internal/ledger/event"
	"github.com/shandysiswandi/gobank/internal/ledger/flatfile"
	"github.com/shandysiswandi/gobank/internal/ledger/inbound"
	"github.com/shandysiswandi/gobank/internal/ledger/store"
	"github.com/shandysiswandi/gobank/internal/ledger/usecase"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/gobank/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/gobank/internal/pkg/pkguid"
)

type Dependency struct {
	Config  pkgconfig.Config
	Router  *pkgrouter.Router // nil when the HTTP API is disabled
	Context context.Context
	ID      pkguid.StringID
	In      io.Reader
	Out     io.Writer
}

// Module is the wired ledger: restored state, console and optional HTTP
// endpoints sharing one Usecase.
type Module struct {
	console   *inbound.Console
	consumer  *event.AuditConsumer
	auditFile io.Closer
}

func New(dep Dependency) (*Module, error) {
	if dep.ID == nil {
		dep.ID = pkguid.NewPrefixedUUID("cli-")
	}
	if dep.Context == nil {
		dep.Context = context.Background()
	}

	verifier, err := auth.New(
		dep.Config.GetString("auth.official.password_hash"),
		dep.Config.GetString("auth.official.password"),
	)
	if err != nil {
		return nil, err
	}

	files := flatfile.New(flatfile.Config{
		Dir:         dep.Config.GetString("storage.dir"),
		AtomicWrite: dep.Config.GetBool("storage.atomic_write"),
	})

	ucDep := usecase.Dependency{
		Store:      store.NewRecordStore(),
		Repository: files,
	}

	m := &Module{}
	if dep.Config.GetBool("audit.enabled") {
		eventID, err := pkguid.NewSnowflake(-1)
		if err != nil {
			return nil, err
		}

		auditFile, err := event.OpenAuditFile(dep.Config.GetString("audit.path"))
		if err != nil {
			return nil, err
		}
		m.auditFile = auditFile

		bus := event.NewBus(512)
		m.consumer = event.NewAuditConsumer(bus, event.NewAuditLog(auditFile), event.ConsumerConfig{
			Workers:     int(dep.Config.GetInt("audit.workers")),
			MaxRetries:  int(dep.Config.GetInt("audit.max_retries")),
			BaseBackoff: 100 * time.Millisecond,
		})
		m.consumer.Start()

		ucDep.Events = bus
		ucDep.EventID = eventID
	}

	uc := usecase.New(ucDep)
	if err := uc.Restore(dep.Context); err != nil {
		return nil, errors.Join(err, m.Close(dep.Context))
	}

	m.console = inbound.NewConsole(inbound.ConsoleDependency{
		UC:       uc,
		Verifier: verifier,
		In:       dep.In,
		Out:      dep.Out,
		ID:       dep.ID,
	})

	if dep.Router != nil {
		inbound.RegisterHTTPEndpoint(dep.Router, uc, verifier)
		slog.Info("ledger http endpoints registered")
	}

	return m, nil
}

// Run blocks on the console session loop.
func (m *Module) Run(ctx context.Context) error {
	return m.console.Run(ctx)
}

// Close drains pending audit events and closes the audit file.
func (m *Module) Close(ctx context.Context) error {
	var errs []error
	if m.consumer != nil {
		errs = append(errs, m.consumer.Stop(ctx))
	}
	if m.auditFile != nil {
		errs = append(errs, m.auditFile.Close())
	}
	return errors.Join(errs...)
}

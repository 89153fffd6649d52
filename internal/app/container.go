package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/doeshing/pyfuturist/internal/application/completion"
	"github.com/doeshing/pyfuturist/internal/application/dispatch"
	"github.com/doeshing/pyfuturist/internal/application/doctor"
	"github.com/doeshing/pyfuturist/internal/application/history"
	"github.com/doeshing/pyfuturist/internal/application/inputsim"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/infrastructure/config"
	"github.com/doeshing/pyfuturist/internal/infrastructure/kvstore"
	"github.com/doeshing/pyfuturist/internal/infrastructure/remote"
	"github.com/doeshing/pyfuturist/internal/pkg/logger"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// Store is a key-value store that owns an underlying resource.
type Store interface {
	ports.KeyValueStore
	Path() string
	Close() error
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         *logger.StdLogger
	Store          Store
	HistoryStore   *history.Store
	Remote         *remote.Client
	Simulator      *inputsim.Simulator
	Dispatcher     *dispatch.Service
	Catalog        completion.Catalog
	Completion     *completion.Aggregator
	DoctorService  *doctor.Service
}

// BuildContainer constructs the dependency graph. The simulator starts without a
// prompter; front-ends attach theirs before dispatching.
func BuildContainer(ctx context.Context, verbose bool) (*Container, error) {
	cfgLoader := config.NewFileLoader("")
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.NewStd(verbose)

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	historyStore := history.New(store,
		history.WithKey(cfg.History.Key),
		history.WithLimits(cfg.HistoryMaxEntries(), cfg.HistoryMaxAge()),
		history.WithLogger(log),
	)

	client, err := remote.New(cfg, remote.WithLogger(log))
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	catalog, err := completion.DefaultCatalog(cfg.Editor.CatalogFile)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	simulator := inputsim.New(nil, log)

	dispatcher := &dispatch.Service{
		CodeRunner:  client,
		QueryRunner: client,
		Simulator:   simulator,
		History:     historyStore,
		Logger:      log,
	}

	doctorService := &doctor.Service{
		ConfigProvider: cfgLoader,
		History:        historyStore,
		Catalog:        &catalog,
		Prober:         client,
	}

	return &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Store:          store,
		HistoryStore:   historyStore,
		Remote:         client,
		Simulator:      simulator,
		Dispatcher:     dispatcher,
		Catalog:        catalog,
		Completion:     completion.NewAggregator(client, catalog, cfg.SuggestTimeout(), log),
		DoctorService:  doctorService,
	}, nil
}

// Close releases the key-value store.
func (c *Container) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

func openStore(cfg domain.Config, log ports.Logger) (Store, error) {
	path := config.HistoryPath(cfg)
	quota := cfg.History.QuotaBytes

	switch strings.ToLower(cfg.History.Backend) {
	case domain.HistoryBackendFile:
		return kvstore.NewFileStore(path, quota), nil
	case "", domain.HistoryBackendSQLite:
		store, err := kvstore.NewSQLiteStore(path, quota)
		if err == nil {
			return store, nil
		}
		fallback := strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
		log.Warn("sqlite store unavailable, using file store", map[string]interface{}{
			"path":     path,
			"fallback": fallback,
			"error":    err.Error(),
		})
		return kvstore.NewFileStore(fallback, quota), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.History.Backend)
	}
}

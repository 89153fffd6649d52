package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/doeshing/pyfuturist/internal/application/completion"
	configapp "github.com/doeshing/pyfuturist/internal/application/config"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// Prober checks that a service endpoint answers at all.
type Prober interface {
	Ping(ctx context.Context, endpoint string) (string, error)
}

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	History        ports.HistoryStore
	Catalog        *completion.Catalog
	Prober         Prober
	ProbeTimeout   time.Duration
}

// Run executes checks and returns a report.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format %s", cfg.ConfigFormatVersion)))
	}

	if s.History != nil {
		checks = append(checks, historyCheck(ctx, s.History, cfg))
	} else {
		checks = append(checks, warn("History store", "history store not initialized"))
	}

	if s.Catalog != nil && s.Catalog.Len() > 0 {
		checks = append(checks, ok("Completion catalog", fmt.Sprintf("%d items in %d groups", s.Catalog.Len(), len(s.Catalog.Groups()))))
	} else {
		checks = append(checks, fail("Completion catalog", "catalog is empty"))
	}

	if s.Prober == nil {
		checks = append(checks, warn("Services", "no prober configured"))
		return domain.HealthReport{Checks: checks}, nil
	}
	services := []struct {
		name string
		path string
	}{
		{"Interpreter service", cfg.Server.RunPath},
		{"Query service", cfg.Server.SQLPath},
		{"Suggestion service", cfg.Server.SuggestPath},
	}
	for _, svc := range services {
		checks = append(checks, s.probe(ctx, cfg, svc.name, svc.path))
	}

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) probe(ctx context.Context, cfg domain.Config, name, path string) domain.HealthCheck {
	endpoint, err := cfg.Endpoint(path)
	if err != nil {
		return fail(name, err.Error())
	}
	timeout := s.ProbeTimeout
	if timeout <= 0 {
		timeout = cfg.SuggestTimeout()
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	status, err := s.Prober.Ping(probeCtx, endpoint)
	if err != nil {
		return fail(name, fmt.Sprintf("%s unreachable: %v", endpoint, err))
	}
	return ok(name, fmt.Sprintf("%s answered %s", endpoint, status))
}

func historyCheck(ctx context.Context, store ports.HistoryStore, cfg domain.Config) domain.HealthCheck {
	entries, err := store.List(ctx)
	if err != nil {
		return fail("History store", err.Error())
	}
	details := fmt.Sprintf("%s backend, %d/%d entries, quota %s",
		cfg.History.Backend, len(entries), cfg.HistoryMaxEntries(), humanize.IBytes(uint64(max(cfg.History.QuotaBytes, 0))))
	if len(entries) > 0 {
		details += fmt.Sprintf(", newest %s", humanize.Time(entries[0].Time))
	}
	return ok("History store", details)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}

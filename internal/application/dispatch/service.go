// Package dispatch routes editor code to the interpreter or the query service
// and normalizes both response shapes into display text.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/doeshing/pyfuturist/internal/application/inputsim"
	"github.com/doeshing/pyfuturist/internal/domain"
	"github.com/doeshing/pyfuturist/internal/ports"
)

// InputSimulator rewrites interactive input calls before dispatch.
type InputSimulator interface {
	Simulate(ctx context.Context, source string) (string, error)
}

// Service orchestrates a single run, debug or query dispatch end-to-end.
type Service struct {
	CodeRunner  ports.CodeRunner
	QueryRunner ports.QueryRunner
	Simulator   InputSimulator
	History     ports.HistoryStore
	Logger      ports.Logger
}

// Execute dispatches req and returns the text to show the user.
//
// Transport failures return the fixed connection error message together with an
// error wrapping domain.ErrTransport; they are not recorded. Application-level
// errors from the services are part of the display text and are recorded.
func (s *Service) Execute(ctx context.Context, req domain.ExecutionRequest) (domain.ExecutionResult, error) {
	if s.CodeRunner == nil || s.QueryRunner == nil || s.History == nil || s.Logger == nil {
		return domain.ExecutionResult{}, errors.New("dispatch.Service dependencies not satisfied")
	}
	if !req.Mode.Valid() {
		return domain.ExecutionResult{}, fmt.Errorf("%w: %q", domain.ErrInvalidMode, req.Mode)
	}

	result := domain.ExecutionResult{Mode: req.Mode, Action: req.Action()}

	remote, err := s.dispatch(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrTransport) {
			s.Logger.Warn("dispatch failed", map[string]interface{}{
				"mode":  req.Mode,
				"error": err.Error(),
			})
			result.DisplayText = domain.ConnectionErrorMessage
		}
		return result, err
	}

	result.Remote = remote
	result.DisplayText = remote.DisplayText()

	if err := s.History.Record(ctx, req.Source, result.Action); err != nil {
		s.Logger.Warn("history record failed", map[string]interface{}{
			"action": result.Action,
			"error":  err.Error(),
		})
	} else {
		result.Recorded = true
	}
	return result, nil
}

func (s *Service) dispatch(ctx context.Context, req domain.ExecutionRequest) (domain.RemoteResult, error) {
	switch req.Mode {
	case domain.ModeRelational:
		s.Logger.Info("running query", map[string]interface{}{"bytes": len(req.Source)})
		res, err := s.QueryRunner.RunQuery(ctx, req.Source)
		if err != nil {
			return nil, fmt.Errorf("run query: %w", err)
		}
		return res, nil
	default:
		code, err := s.prepare(ctx, req.Source)
		if err != nil {
			return nil, err
		}
		s.Logger.Info("running code", map[string]interface{}{"bytes": len(code), "debug": req.Debug})
		res, err := s.CodeRunner.RunCode(ctx, code, req.Debug)
		if err != nil {
			return nil, fmt.Errorf("run code: %w", err)
		}
		return res, nil
	}
}

// prepare applies input simulation when the source asks for interactive input.
func (s *Service) prepare(ctx context.Context, source string) (string, error) {
	if !inputsim.HasInputCalls(source) {
		return source, nil
	}
	if s.Simulator == nil {
		return "", errors.New("source requests input but no simulator is configured")
	}
	code, err := s.Simulator.Simulate(ctx, source)
	if err != nil {
		return "", err
	}
	return code, nil
}

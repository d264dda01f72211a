package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/run"
	"github.com/rs/zerolog/log"
)

// ErrShutdownTimeout is returned when services outlive the grace period.
var ErrShutdownTimeout = errors.New("services did not stop within the grace period")

// Service is a long-running component stopped by cancelling its context.
type Service interface {
	Run(ctx context.Context) error
}

// ServiceFunc adapts a function to Service.
type ServiceFunc func(ctx context.Context) error

func (f ServiceFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// App runs services until the first one returns, then stops the rest.
type App struct {
	services []named
	grace    time.Duration
}

type named struct {
	name string
	svc  Service
}

func New(grace time.Duration) *App {
	return &App{grace: grace}
}

func (a *App) WithService(name string, s Service) *App {
	a.services = append(a.services, named{name: name, svc: s})
	return a
}

// Run blocks until a service returns and the others have stopped, or the
// grace period after the first return has elapsed. It returns the error of
// the service that stopped first.
func (a *App) Run(ctx context.Context) error {
	var g run.Group
	stopping := make(chan struct{})

	for i, s := range a.services {
		execute, interrupt := actor(ctx, s)
		if i == 0 {
			interrupt = closeOnce(stopping, interrupt)
		}
		g.Add(execute, interrupt)
	}

	done := make(chan error, 1)
	go func() {
		done <- g.Run()
	}()

	select {
	case err := <-done:
		return err
	case <-stopping:
	}

	if a.grace <= 0 {
		return <-done
	}

	timer := time.NewTimer(a.grace)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		log.Warn().Dur("grace", a.grace).Msg("Shutdown grace period elapsed")
		return ErrShutdownTimeout
	}
}

func actor(ctx context.Context, s named) (func() error, func(error)) {
	ctx, cancel := context.WithCancelCause(ctx)
	logger := log.With().Str("component", "app").Str("service", s.name).Logger()

	return func() error {
			err := s.svc.Run(ctx)
			logger.Debug().Err(err).Msg("Service returned")
			if err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			return nil
		}, func(err error) {
			cancel(err)
		}
}

// closeOnce signals stopping when run.Group starts interrupting actors.
// Every actor is interrupted, so hooking the first one is enough.
func closeOnce(stopping chan struct{}, next func(error)) func(error) {
	return func(err error) {
		close(stopping)
		next(err)
	}
}

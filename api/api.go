// Package api is the host for the todo record store. It exposes each
// store operation as an HTTP entry point and runs invocations one at a
// time, so every call sees and leaves a consistent counter and maps.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"todo/store"
	"todo/todo"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type ErrResponse struct {
	HTTPStatusCode int
	Message        string
}

type Api struct {
	Address string
	Port    int
	Todos   *todo.Store
	Events  store.Store[todo.Event]
	Router  *chi.Mux

	log *zap.Logger
	mu  sync.Mutex
}

func New(address string, port int, todos *todo.Store, events store.Store[todo.Event], log *zap.Logger) *Api {
	if log == nil {
		log = zap.NewNop()
	}

	a := &Api{
		Address: address,
		Port:    port,
		Todos:   todos,
		Events:  events,
		log:     log.Named("api"),
	}
	a.initRouter()

	return a
}

func (a *Api) initRouter() {
	a.Router = chi.NewRouter()
	a.Router.Use(middleware.RequestID)
	a.Router.Use(a.requestLogger)
	a.Router.Use(middleware.Recoverer)

	a.Router.Group(func(r chi.Router) {
		r.Use(a.serialize)

		r.Route("/todos", func(r chi.Router) {
			r.Post("/", a.CreateTodoHandler)
			r.Get("/count", a.CountTodosHandler)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", a.GetTodoHandler)
				r.Delete("/", a.DeleteTodoHandler)
				r.Put("/complete", a.CompleteTodoHandler)
				r.Get("/completed", a.IsCompletedHandler)
			})
		})
		r.Get("/events", a.GetEventsHandler)
		r.Get("/stats", a.GetStatsHandler)
	})
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (a *Api) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.Address, a.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		a.log.Info("listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// record appends an event for a mutating invocation. Keys are zero-padded
// sequence numbers so the event store lists them in order.
func (a *Api) record(ctx context.Context, e todo.Event) {
	if a.Events == nil {
		return
	}

	log := a.logger(ctx)

	n, err := a.Events.Count()
	if err != nil {
		log.Error("counting events", zap.Error(err))
		return
	}

	if err := a.Events.Put(fmt.Sprintf("%020d", n+1), e); err != nil {
		log.Error("storing event", zap.Stringer("event_id", e.ID), zap.Error(err))
	}
}

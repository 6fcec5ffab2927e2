package api

import (
	"context"
	"net/http"
	"time"

	"todo/logger"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// serialize holds the host lock for the whole invocation.
func (a *Api) serialize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (a *Api) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithFields(r.Context(),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		ctx = logger.WithLogger(ctx, a.log)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.FromContext(ctx, a.log).Info("request",
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (a *Api) logger(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, a.log)
}

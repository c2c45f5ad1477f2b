package httpserver

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rohittgajula/IMDB-clone/internal/auth"
)

// requestLogger logs each request with method, path, status, duration and
// the request and user identifiers.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		var caller auth.Caller
		next.ServeHTTP(ww, r.WithContext(withCallerSlot(r.Context(), &caller)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}
		if caller.Authenticated() {
			fields = append(fields, zap.String("user_id", caller.UserID.String()))
		}

		level := zapcore.InfoLevel
		if status >= http.StatusInternalServerError {
			level = zapcore.ErrorLevel
		}
		if ce := s.logger.Check(level, "http.request"); ce != nil {
			ce.Write(fields...)
		}
	})
}

// instrument records request counts and latency per route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		var route string
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			route = rctx.RoutePattern()
		}
		s.metrics.ObserveRequest(route, r.Method, status, time.Since(start))
	})
}

// identify resolves the bearer token into an auth.Caller. Requests without a
// token proceed anonymously; an invalid token is rejected outright.
func (s *Server) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		caller, err := s.tokens.Validate(token)
		if err != nil {
			s.logger.Debug("rejected bearer token", zap.Error(err))
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		if slot := callerSlotFrom(r.Context()); slot != nil {
			*slot = caller
		}
		next.ServeHTTP(w, r.WithContext(auth.WithCaller(r.Context(), caller)))
	})
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

type callerSlotKey struct{}

// withCallerSlot lets identify report the resolved caller back to the
// request logger, which runs outside of it.
func withCallerSlot(ctx context.Context, slot *auth.Caller) context.Context {
	return context.WithValue(ctx, callerSlotKey{}, slot)
}

func callerSlotFrom(ctx context.Context) *auth.Caller {
	slot, _ := ctx.Value(callerSlotKey{}).(*auth.Caller)
	return slot
}

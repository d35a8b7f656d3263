package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/kitchen/internal/domain"
	"github.com/fjod/kitchen/internal/session"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const SessionCookie = "kitchen_session"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	bagKey
	actorKey
)

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs one line per request.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", getRequestID(r.Context()),
			)
		})
	}
}

// SessionMiddleware attaches the caller's session bag and actor to the
// request. Requests without a valid session cookie get a fresh session.
func SessionMiddleware(sessions *session.Manager, ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
				id = c.Value
			}
			if id == "" {
				id = session.NewID()
			}
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			bag := sessions.Bag(id)
			actor, err := session.ResolveActor(r.Context(), bag)
			if err != nil {
				slog.WarnContext(r.Context(), "could not resolve session identity", "error", err)
				actor = domain.AnonymousActor()
			}

			ctx := context.WithValue(r.Context(), bagKey, bag)
			ctx = context.WithValue(ctx, actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects everyone but staff.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor := getActor(r.Context())
		switch {
		case actor.IsAnonymous():
			respondError(w, http.StatusUnauthorized, "unauthenticated", "please log in to continue")
		case !actor.IsAdmin():
			respondError(w, http.StatusForbidden, "forbidden", "staff only")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func getActor(ctx context.Context) domain.Actor {
	if actor, ok := ctx.Value(actorKey).(domain.Actor); ok {
		return actor
	}
	return domain.AnonymousActor()
}

func getBag(ctx context.Context) *session.Bag {
	bag, _ := ctx.Value(bagKey).(*session.Bag)
	return bag
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok {
		return requestID
	}
	return ""
}

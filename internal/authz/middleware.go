package authz

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/HappyHackingSpace/CommunityHub-sub001/internal/shared"
)

// UserResolver loads the authorization snapshot for the session user,
// including the granted-permission list.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID int64) (User, error)
}

// Middleware wires gate decisions into HTTP handlers.
type Middleware struct {
	Resolver UserResolver
	Logger   *slog.Logger
}

// RequireAny admits requests whose user holds at least one of the named
// permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return m.require(RequireAnyOf(perms...))
}

// RequireAll admits requests whose user holds every named permission.
func (m Middleware) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return m.require(RequireAllOf(perms...))
}

// Authenticate resolves the session user into the request context without
// imposing a permission requirement. Handlers behind it make their own
// gate decisions for checks that depend on request data.
func (m Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.currentUser(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// RequireRole admits requests whose user has one of the allowed roles.
func (m Middleware) RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return m.require(RequireRoles(roles...))
}

func (m Middleware) require(req Requirement) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.currentUser(w, r)
			if !ok {
				return
			}
			if d := Decide(user, req); !d.Allowed {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
		})
	}
}

// currentUser resolves the session user. A resolver failure is reported as
// 500, never converted into an allow.
func (m Middleware) currentUser(w http.ResponseWriter, r *http.Request) (User, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return User{}, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return User{}, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz parse user id", slog.String("value", raw))
		}
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return User{}, false
	}
	user, err := m.Resolver.ResolveUser(r.Context(), id)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Error("authz resolve user", slog.Any("error", err))
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return User{}, false
	}
	return user, true
}

type userContextKey struct{}

// ContextWithUser stores the resolved user snapshot in the context.
func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the user snapshot placed by the middleware. The
// second return is false for requests that passed no authz guard.
func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userContextKey{}).(User)
	return user, ok
}

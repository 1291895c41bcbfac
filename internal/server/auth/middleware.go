package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/portfoliorisk/internal/common"
	"github.com/dmitrijs2005/portfoliorisk/internal/logging"
	"github.com/dmitrijs2005/portfoliorisk/internal/server/models"
)

// UserResolver looks a token subject up.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Authenticator struct {
	tokens *TokenService
	users  UserResolver
	logger logging.Logger
}

func NewAuthenticator(tokens *TokenService, users UserResolver, logger logging.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, logger: logger}
}

// Middleware attaches the caller Identity when the request carries a valid
// bearer token. Requests without one continue anonymously; RequireIdentity
// decides whether that is acceptable.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if _, ok := IdentityFromContext(ctx); ok {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		subject, err := a.tokens.ExtractSubject(token)
		if err != nil {
			a.logger.Debug(ctx, "bearer token rejected", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.GetByEmail(ctx, subject)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				a.logger.Debug(ctx, "token subject not resolved", "subject", subject)
			} else {
				a.logger.Error(ctx, "token subject lookup failed", "subject", subject, "error", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		if !a.tokens.IsValid(token, user.Email) {
			next.ServeHTTP(w, r)
			return
		}

		ctx = WithIdentity(ctx, Identity{UserID: user.ID, Email: user.Email, Role: user.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	token, ok := strings.CutPrefix(h, common.BearerPrefix)
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireIdentity answers 401 to requests that reached it without an
// Identity.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("{}\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

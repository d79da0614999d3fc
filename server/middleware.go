package server

import (
	"context"
	"net/http"

	"github.com/liondadev/pixcode/types"
)

type contextKey string

const (
	AuthenticatedUserContextKey contextKey = "pixcode::authenticated_user"

	// TokenHeader is the header api clients send their token in.
	TokenHeader    = "token"
	maxTokenLength = 64
)

// preHandleAuthentication resolves the token header to a user and stores it
// under AuthenticatedUserContextKey. A missing, oversized or unknown token is
// rejected here.
func (s *Server) preHandleAuthentication(next http.Handler) http.Handler {
	return HandlerWithError(func(w http.ResponseWriter, r *http.Request) error {
		token := r.Header.Get(TokenHeader)
		if token == "" || len(token) > maxTokenLength {
			return errMissingToken
		}

		user, err := s.store.UserByToken(r.Context(), token)
		if err != nil {
			return err
		}
		if user == nil {
			return errUnknownToken
		}

		ctx := context.WithValue(r.Context(), AuthenticatedUserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))

		return nil
	})
}

// preHandleRequireUploader only lets users with upload permission through.
func (s *Server) preHandleRequireUploader(next http.Handler) http.Handler {
	return HandlerWithError(func(w http.ResponseWriter, r *http.Request) error {
		user := authenticatedUser(r)
		if user == nil {
			panic("attempted to require an uploader when the prehandleauthentication middleware isn't called")
		}

		if !user.Permission {
			return errUnauthorized
		}

		next.ServeHTTP(w, r)

		return nil
	})
}

func authenticatedUser(r *http.Request) *types.User {
	user, _ := r.Context().Value(AuthenticatedUserContextKey).(*types.User)
	return user
}

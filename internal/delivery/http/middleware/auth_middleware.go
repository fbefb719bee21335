package middleware

import (
	"ecommerce-backend/internal/auth"
	"ecommerce-backend/pkg/logger"
	"ecommerce-backend/pkg/utils"
	"net/http"
)

// Auth verifies bearer tokens and enforces the role policy.
type Auth struct {
	authenticator auth.Authenticator
	resolver      *auth.PrincipalResolver
	authorizer    *auth.Authorizer
}

func NewAuth(authenticator auth.Authenticator, resolver *auth.PrincipalResolver, authorizer *auth.Authorizer) *Auth {
	return &Auth{
		authenticator: authenticator,
		resolver:      resolver,
		authorizer:    authorizer,
	}
}

// Authenticate rejects requests without a valid token and stores the
// resolved principal in the request context.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r)
		if token == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", "no token provided")
			return
		}

		identity, err := a.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			logger.WithContext(r.Context()).Debug().Err(err).Msg("Auth: token rejected")
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}

		principal, err := a.resolver.Resolve(r.Context(), identity)
		if err != nil {
			logger.WithContext(r.Context()).Error().Err(err).Msg("Auth: role lookup failed")
			utils.WriteError(w, http.StatusInternalServerError, "UpstreamFailure", "could not resolve caller")
			return
		}

		if meta := metaFrom(r.Context()); meta != nil {
			meta.email = principal.Email
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

// Require allows the request through only if the principal's role grants
// action on resource. It must run after Authenticate.
func (a *Auth) Require(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := auth.PrincipalFrom(r.Context())
			if principal == nil {
				utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", "no authenticated caller")
				return
			}

			ok, err := a.authorizer.Allowed(principal, resource, action)
			if err != nil {
				logger.WithContext(r.Context()).Error().Err(err).Msg("Auth: policy evaluation failed")
				utils.WriteError(w, http.StatusInternalServerError, "UpstreamFailure", "authorization failed")
				return
			}
			if !ok {
				utils.WriteError(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Protect is Authenticate followed by Require.
func (a *Auth) Protect(resource, action string, h http.Handler) http.Handler {
	return a.Authenticate(a.Require(resource, action)(h))
}

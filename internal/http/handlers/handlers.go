package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/vistamar/club-reservations/internal/http/response"
	"github.com/vistamar/club-reservations/internal/service/billing"
	"github.com/vistamar/club-reservations/internal/service/reservations"
	"github.com/vistamar/club-reservations/pkg/auth"
	"github.com/vistamar/club-reservations/pkg/logger"
)

type Handlers struct {
	reservations reservations.Service
	billing      billing.Service
	currency     string
	jwtSecret    string
}

func New(reservationSvc reservations.Service, billingSvc billing.Service, currency, jwtSecret string) *Handlers {
	return &Handlers{
		reservations: reservationSvc,
		billing:      billingSvc,
		currency:     currency,
		jwtSecret:    jwtSecret,
	}
}

type claimsKey struct{}

// RequireRole verifies the bearer token and checks its role claim.
func (h *Handlers) RequireRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				response.Unauthorized(w, "missing bearer token")
				return
			}

			claims, err := auth.Parse(strings.TrimPrefix(header, "Bearer "), h.jwtSecret)
			if err != nil {
				response.Unauthorized(w, "invalid token")
				return
			}
			if claims.Role != requiredRole {
				response.Forbidden(w, "insufficient role")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = context.WithValue(ctx, logger.MemberIDKey, claims.Sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func claimsFrom(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey{}).(*auth.Claims)
	return claims
}

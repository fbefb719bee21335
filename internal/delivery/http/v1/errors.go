package v1

import (
	"ecommerce-backend/internal/domain"
	"ecommerce-backend/pkg/logger"
	"ecommerce-backend/pkg/utils"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind string) int {
	switch kind {
	case "InvalidCoupon", "NotFound":
		return http.StatusNotFound
	case "CouponExpired", "UsageLimitReached", "MinimumPurchaseNotMet", "AmountTooLow", "MalformedInput":
		return http.StatusBadRequest
	case "Unauthorized":
		return http.StatusUnauthorized
	case "Forbidden":
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError is the single place usecase errors become HTTP responses.
// Upstream failures are logged with their cause and reported without it.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.ErrorKind(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		utils.WriteError(w, status, kind, "internal server error")
		return
	}

	var minErr *domain.MinimumPurchaseError
	if errors.As(err, &minErr) {
		utils.WriteJSON(w, status, map[string]interface{}{
			"error":       kind,
			"message":     err.Error(),
			"minPurchase": minErr.MinPurchase,
		})
		return
	}

	utils.WriteError(w, status, kind, err.Error())
}

// pathID returns the {id} path value if it is a well-formed identifier and
// writes a 400 otherwise.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "MalformedInput", "Invalid ID format")
		return "", false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "MalformedInput", "invalid request body")
		return false
	}
	return true
}

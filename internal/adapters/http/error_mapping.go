package httpadapter

import (
	"net/http"

	"github.com/breverdbidder/property360-sale-advisor/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrMalformedResponse), domain.IsKind(err, domain.ErrSchemaViolation):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrInferenceUnavailable),
		domain.IsKind(err, domain.ErrConfigurationMissing),
		domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/account-ledger/internal/domain/entity"
	"github.com/oksasatya/account-ledger/pkg/response"
)

// StatusFor maps a ledger error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entity.ErrDuplicateContact):
		return http.StatusConflict
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNoProjection), errors.Is(err, entity.ErrStaleProjection):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope. Internal errors are logged and their detail
// withheld from the client.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Error[any](c, status, "internal error", nil)
		return
	}
	response.Error[any](c, status, message(err), nil)
}

// message drops the sentinel prefix so clients see only the detail, for
// example "recipient not found" instead of "account not found: recipient not found".
func message(err error) string {
	msg := err.Error()
	for _, s := range []error{
		entity.ErrValidation, entity.ErrInvalidAmount, entity.ErrNotFound,
	} {
		if prefix := s.Error() + ": "; strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

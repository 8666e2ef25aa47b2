package api

import (
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/librarianapp/librarian-server/internal/errors"
	"github.com/librarianapp/librarian-server/internal/http/response"
)

// handleServiceError maps service errors to HTTP responses.
// Duplicate-key and state-conflict errors surface as 400 to match
// the wire contract clients already depend on.
func handleServiceError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domainerrors.CodeNotFound:
			response.NotFound(w, domainErr.Message, logger)
		case domainerrors.CodeAlreadyExists, domainerrors.CodeStateConflict, domainerrors.CodeValidation:
			response.BadRequest(w, domainErr.Message, logger)
		case domainerrors.CodeForbidden:
			response.Forbidden(w, domainErr.Message, logger)
		case domainerrors.CodeUnauthorized, domainerrors.CodeInvalidCredentials, domainerrors.CodeTokenExpired:
			response.Unauthorized(w, domainErr.Message, logger)
		default:
			if logger != nil {
				logger.Error("Service error", "error", err)
			}
			response.InternalError(w, domainErr.Message, logger)
		}
		return
	}

	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	response.InternalError(w, "An unexpected error occurred", logger)
}

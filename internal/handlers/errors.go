package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/board"
	apierrors "github.com/teamboard/teamboard-api/internal/errors"
	"github.com/teamboard/teamboard-api/internal/services"
)

// respondServiceError maps the service error taxonomy onto HTTP
// responses. Every branch produces a distinguishable code so the
// client can decide whether to re-prompt, hide UI, or retry.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied),
		errors.Is(err, services.ErrSelfRoleChange),
		errors.Is(err, services.ErrSelfDeactivation):
		apierrors.RespondWithError(c, http.StatusForbidden,
			apierrors.NewAPIError(apierrors.ErrCodePermissionDenied, err.Error()))

	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.RespondWithError(c, http.StatusNotFound,
			apierrors.NewAPIError(apierrors.ErrCodeNotFound, err.Error()))

	case errors.Is(err, services.ErrRoleConflict):
		apierrors.RespondWithError(c, http.StatusConflict,
			apierrors.NewAPIError(apierrors.ErrCodeRoleConflict, err.Error()))

	case errors.Is(err, services.ErrEmailTaken):
		apierrors.RespondWithError(c, http.StatusConflict,
			apierrors.NewAPIError(apierrors.ErrCodeAlreadyExists, err.Error()))

	case errors.Is(err, board.ErrEmptyTitle):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.Validation(apierrors.ReasonEmptyTitle, err.Error()))

	case errors.Is(err, board.ErrNegativeEstimate):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.Validation(apierrors.ReasonNegativeEstimate, err.Error()))

	case errors.Is(err, board.ErrInvalidStatus):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.Validation(apierrors.ReasonInvalidStatus, err.Error()))

	case errors.Is(err, board.ErrInvalidPriority):
		apierrors.RespondWithError(c, http.StatusBadRequest,
			apierrors.Validation(apierrors.ReasonInvalidPriority, err.Error()))

	case errors.Is(err, services.ErrAssigneeInactive),
		errors.Is(err, services.ErrTaskNotInColumn),
		errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrUnknownRole):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountInactive):
		apierrors.RespondWithError(c, http.StatusUnauthorized,
			apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, err.Error()))

	case errors.Is(err, services.ErrStorageTimeout):
		apierrors.RespondWithError(c, http.StatusGatewayTimeout,
			apierrors.NewAPIError(apierrors.ErrCodeStorageTimeout, err.Error()))

	case errors.Is(err, services.ErrStorageFailure):
		apierrors.RespondWithError(c, http.StatusBadGateway,
			apierrors.NewAPIError(apierrors.ErrCodeStorageFailure, err.Error()))

	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeInternalError, err.Error()))

	case errors.Is(err, services.ErrAINoTasksSuggested):
		apierrors.BadRequest(c, err.Error())

	case errors.Is(err, board.ErrStoreCorrupt):
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeStorageFailure, err.Error()))

	default:
		apierrors.InternalError(c, "")
	}
}

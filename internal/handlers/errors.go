package handlers

import (
	"errors"
	"net/http"

	"github.com/ThierryWelling/simplo-ti/internal/models"
	"github.com/ThierryWelling/simplo-ti/internal/service"
	"github.com/ThierryWelling/simplo-ti/internal/utils"
)

// writeDomainError maps service-layer sentinel errors onto HTTP statuses.
// Anything unrecognized is a 500 with a generic body.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrAlreadyAssigned),
		errors.Is(err, models.ErrAlreadyRated),
		errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrLastAdmin),
		errors.Is(err, models.ErrPatrimonyTaken),
		errors.Is(err, models.ErrAlreadySetUp):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNoAssignee),
		errors.Is(err, models.ErrNotConcluded):
		utils.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrNotAdmin),
		errors.Is(err, models.ErrNotCreator):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		utils.Error(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, models.ErrEmailNotConfirmed):
		utils.ErrorCode(w, http.StatusForbidden, "email_not_confirmed", "email not confirmed")
	case errors.Is(err, models.ErrInvalidToken):
		utils.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorageDisabled):
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeValid decodes JSON into dst and runs struct validation, writing the
// 400 itself on failure.
func decodeValid(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decodeJSON(r, dst); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := utils.Validator().StructCtx(r.Context(), dst); err != nil {
		utils.Error(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return false
	}
	return true
}

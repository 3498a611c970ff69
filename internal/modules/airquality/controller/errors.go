package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/Sriverasc/AireAPI/internal/modules/airquality/repository"
	"github.com/Sriverasc/AireAPI/internal/temporal"
	"github.com/Sriverasc/AireAPI/internal/utils"
)

// writeFailure maps err to a status code and writes the error envelope.
// Storage faults are logged and reported without driver details.
func writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		badReq    *badRequestError
		parseErr  *temporal.ParseError
		rangeErr  *temporal.RangeError
		boundsErr *temporal.OutOfBoundsError
		verrs     validator.ValidationErrors
		dup       *repository.DuplicateKeyError
		notFound  *repository.NotFoundError
		integrity *repository.IntegrityError
	)
	switch {
	case errors.As(err, &verrs):
		utils.WriteError(w, http.StatusBadRequest, validationMessage(err))
	case errors.As(err, &badReq),
		errors.As(err, &parseErr),
		errors.As(err, &rangeErr),
		errors.As(err, &boundsErr),
		errors.As(err, &dup):
		utils.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFound):
		utils.WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &integrity):
		slog.Error("storage integrity error", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "integrity error while saving reading")
	default:
		slog.Error("storage error", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "storage error")
	}
}

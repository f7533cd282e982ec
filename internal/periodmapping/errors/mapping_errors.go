package mappingerrors

import (
	"net/http"

	"go-peval/internal/shared/apperror"
)

var (
	ErrInvalidMappingID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee mapping id",
		http.StatusBadRequest,
	)
	ErrMappingNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee mapping not found",
		http.StatusNotFound,
	)
	ErrInvalidEvaluationType = apperror.New(
		apperror.CodeInvalidInput,
		"evaluationType must be one of self, primary, secondary, all",
		http.StatusBadRequest,
	)
	ErrDuplicateMapping = apperror.New(
		apperror.CodeConflict,
		"employee is already mapped to this evaluation period",
		http.StatusConflict,
	)
	ErrExclusionReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"exclusion reason is required",
		http.StatusBadRequest,
	)
)

package perioderrors

import (
	"net/http"

	"go-peval/internal/shared/apperror"
)

var (
	ErrInvalidPeriodID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid evaluation period id",
		http.StatusBadRequest,
	)
	ErrPeriodNotFound = apperror.New(
		apperror.CodeNotFound,
		"evaluation period not found",
		http.StatusNotFound,
	)
	ErrInvalidDeadlineFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid deadline format, expected RFC3339",
		http.StatusBadRequest,
	)
	ErrDeadlineOrder = apperror.New(
		apperror.CodeInvalidInput,
		"phase deadlines must not decrease along the phase order",
		http.StatusBadRequest,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"evaluation period was modified concurrently, retry the request",
		http.StatusConflict,
	)
)

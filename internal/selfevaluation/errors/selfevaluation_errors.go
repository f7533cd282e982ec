package selfevaluationerrors

import (
	"net/http"

	"go-peval/internal/shared/apperror"
)

var (
	ErrInvalidEvaluationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid self-evaluation id",
		http.StatusBadRequest,
	)
	ErrEvaluationNotFound = apperror.New(
		apperror.CodeNotFound,
		"self-evaluation not found",
		http.StatusNotFound,
	)
	ErrContentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"content is required before submission",
		http.StatusBadRequest,
	)
	ErrScoreRequired = apperror.New(
		apperror.CodeInvalidInput,
		"score is required before submission",
		http.StatusBadRequest,
	)
	ErrScoreOutOfRange = apperror.New(
		apperror.CodeInvalidInput,
		"score is outside the allowed range for this period",
		http.StatusBadRequest,
	)
	ErrEvaluatorStageRequired = apperror.New(
		apperror.CodeInvalidState,
		"submission to evaluator must happen before submission to manager",
		http.StatusBadRequest,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"self-evaluation was changed by another request, retry with fresh data",
		http.StatusConflict,
	)
	ErrAlreadyCompleted = apperror.New(
		apperror.CodeConflict,
		"self-evaluation is already completed",
		http.StatusConflict,
	)
	ErrNotEditable = apperror.New(
		apperror.CodeForbidden,
		"self-evaluation is not editable for this employee",
		http.StatusForbidden,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"self-evaluation belongs to another employee",
		http.StatusForbidden,
	)
	ErrNoAssignments = apperror.New(
		apperror.CodeInvalidInput,
		"no WBS assignments found for this employee, period and project",
		http.StatusBadRequest,
	)
	ErrNoEvaluations = apperror.New(
		apperror.CodeInvalidInput,
		"no self-evaluations found for the resolved WBS assignments",
		http.StatusBadRequest,
	)
)

package stepapprovalerrors

import (
	"net/http"

	"go-peval/internal/shared/apperror"
)

var (
	ErrInvalidStep = apperror.New(
		apperror.CodeInvalidInput,
		"step must be one of CRITERIA, SELF, PRIMARY, SECONDARY",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"status must be one of PENDING, APPROVED, REVISION_REQUESTED, REVISION_COMPLETED",
		http.StatusBadRequest,
	)
	ErrEvaluatorRequired = apperror.New(
		apperror.CodeInvalidInput,
		"evaluatorId is required for the SECONDARY step",
		http.StatusBadRequest,
	)
	ErrRevisionCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"revisionComment is required when requesting a revision",
		http.StatusBadRequest,
	)
	ErrMappingNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee is not mapped to this evaluation period",
		http.StatusNotFound,
	)
	ErrTransitionNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"requested status transition is not allowed from the current status",
		http.StatusBadRequest,
	)
)

package periodmapping

type UpdateEditableStatusRequest struct {
	IsEditable *bool  `json:"isEditable" binding:"required"`
	UpdatedBy  string `json:"updatedBy"`
}

type BulkEditableStatusRequest struct {
	IsSelfEvaluationEditable      *bool  `json:"isSelfEvaluationEditable" binding:"required"`
	IsPrimaryEvaluationEditable   *bool  `json:"isPrimaryEvaluationEditable" binding:"required"`
	IsSecondaryEvaluationEditable *bool  `json:"isSecondaryEvaluationEditable" binding:"required"`
	UpdatedBy                     string `json:"updatedBy"`
}

type ExcludeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type MappingResponse struct {
	ID                            string  `json:"id"`
	PeriodID                      string  `json:"periodId"`
	EmployeeID                    string  `json:"employeeId"`
	IsExcluded                    bool    `json:"isExcluded"`
	ExclusionReason               *string `json:"exclusionReason,omitempty"`
	ExcludedBy                    *string `json:"excludedBy,omitempty"`
	ExcludedAt                    *string `json:"excludedAt,omitempty"`
	IsSelfEvaluationEditable      bool    `json:"isSelfEvaluationEditable"`
	IsPrimaryEvaluationEditable   bool    `json:"isPrimaryEvaluationEditable"`
	IsSecondaryEvaluationEditable bool    `json:"isSecondaryEvaluationEditable"`
}

type BulkEditableStatusResponse struct {
	UpdatedCount int64 `json:"updatedCount"`
}

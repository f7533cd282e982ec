package stepapproval

import "time"

type ChangeStepStatusRequest struct {
	Status                 string  `json:"status" binding:"required"`
	RevisionComment        *string `json:"revisionComment"`
	ApproveSubsequentSteps bool    `json:"approveSubsequentSteps"`
}

// ChangeStepStatusCommand is the full engine input once path, query and body
// parameters have been merged by the handler.
type ChangeStepStatusCommand struct {
	PeriodID               string
	EmployeeID             string
	Step                   string
	EvaluatorID            *string
	Status                 string
	RevisionComment        *string
	ApproveSubsequentSteps bool
	UpdatedBy              string
}

type StepApprovalResponse struct {
	ID                string     `json:"id"`
	PeriodID          string     `json:"periodId"`
	EmployeeID        string     `json:"employeeId"`
	Step              string     `json:"step"`
	EvaluatorID       *string    `json:"evaluatorId,omitempty"`
	Status            string     `json:"status"`
	RevisionComment   *string    `json:"revisionComment,omitempty"`
	RevisionRequestID *string    `json:"revisionRequestId,omitempty"`
	ApprovedBy        *string    `json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time `json:"approvedAt,omitempty"`
	CascadedSteps     []string   `json:"cascadedSteps,omitempty"`
}

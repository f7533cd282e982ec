package selfevaluation

import "time"

type EvaluationResponse struct {
	ID                     string     `json:"id"`
	PeriodID               string     `json:"periodId"`
	EmployeeID             string     `json:"employeeId"`
	WbsItemID              string     `json:"wbsItemId"`
	Content                *string    `json:"content"`
	Score                  *float64   `json:"score"`
	PerformanceResult      *string    `json:"performanceResult,omitempty"`
	SubmittedToEvaluatorAt *time.Time `json:"submittedToEvaluatorAt"`
	SubmittedToManagerAt   *time.Time `json:"submittedToManagerAt"`
	IsCompleted            bool       `json:"isCompleted"`
	CompletedAt            *time.Time `json:"completedAt"`
}

type FailedEvaluation struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkSubmissionResponse is always returned with a 2xx status: per-item
// outcomes live in the body, not the status code.
type BulkSubmissionResponse struct {
	SubmittedCount       int                `json:"submittedCount"`
	FailedCount          int                `json:"failedCount"`
	TotalCount           int                `json:"totalCount"`
	CompletedEvaluations []string           `json:"completedEvaluations"`
	FailedEvaluations    []FailedEvaluation `json:"failedEvaluations"`
}

type UpdateContentRequest struct {
	Content *string  `json:"content"`
	Score   *float64 `json:"score"`
}

type CompletionSummaryResponse struct {
	PeriodID             string  `json:"periodId"`
	EmployeeID           string  `json:"employeeId"`
	Total                int64   `json:"total"`
	SubmittedToEvaluator int64   `json:"submittedToEvaluator"`
	Completed            int64   `json:"completed"`
	CompletionRate       float64 `json:"completionRate"`
}

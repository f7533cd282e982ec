package evaluationperiod

type PeriodResponse struct {
	ID                      string               `json:"id"`
	Name                    string               `json:"name"`
	StartDate               string               `json:"startDate"`
	EndDate                 *string              `json:"endDate"`
	Status                  string               `json:"status"`
	CurrentPhase            string               `json:"currentPhase"`
	EvaluationSetupDeadline *string              `json:"evaluationSetupDeadline"`
	PerformanceDeadline     *string              `json:"performanceDeadline"`
	SelfEvaluationDeadline  *string              `json:"selfEvaluationDeadline"`
	PeerEvaluationDeadline  *string              `json:"peerEvaluationDeadline"`
	MaxSelfEvaluationRate   int                  `json:"maxSelfEvaluationRate"`
	CompletedDate           *string              `json:"completedDate"`
	GradeRanges             []GradeRangeResponse `json:"gradeRanges,omitempty"`
}

type GradeRangeResponse struct {
	Grade    string  `json:"grade"`
	MinRange float64 `json:"minRange"`
	MaxRange float64 `json:"maxRange"`
}

// SetDeadlinesRequest carries optional RFC3339 deadline values. A missing
// field leaves the stored deadline untouched; an empty string clears it.
type SetDeadlinesRequest struct {
	EvaluationSetupDeadline *string `json:"evaluationSetupDeadline"`
	PerformanceDeadline     *string `json:"performanceDeadline"`
	SelfEvaluationDeadline  *string `json:"selfEvaluationDeadline"`
	PeerEvaluationDeadline  *string `json:"peerEvaluationDeadline"`
}

// AutoTransitionResponse is the cron trigger contract. It intentionally
// bypasses the shared envelope so scheduler integrations can key off the
// flat success field.
type AutoTransitionResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	TransitionedCount int    `json:"transitionedCount"`
}

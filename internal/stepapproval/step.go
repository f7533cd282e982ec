package stepapproval

const (
	StepCriteria  = "CRITERIA"
	StepSelf      = "SELF"
	StepPrimary   = "PRIMARY"
	StepSecondary = "SECONDARY"
)

const (
	StatusPending           = "PENDING"
	StatusApproved          = "APPROVED"
	StatusRevisionRequested = "REVISION_REQUESTED"
	StatusRevisionCompleted = "REVISION_COMPLETED"
)

// stepOrder is the fixed review progression; the forward cascade walks it.
var stepOrder = []string{StepCriteria, StepSelf, StepPrimary, StepSecondary}

func StepRank(step string) int {
	for i, s := range stepOrder {
		if s == step {
			return i
		}
	}
	return -1
}

// StepsAfter returns the steps strictly following the given one. A cascade
// only ever moves forward.
func StepsAfter(step string) []string {
	rank := StepRank(step)
	if rank < 0 || rank >= len(stepOrder)-1 {
		return nil
	}
	return stepOrder[rank+1:]
}

// allowedTransitions encodes the review loop. The evaluatee answers a
// revision request with REVISION_COMPLETED, which the approver can approve
// or send back again.
var allowedTransitions = map[string][]string{
	StatusPending:           {StatusApproved, StatusRevisionRequested},
	StatusRevisionRequested: {StatusRevisionCompleted},
	StatusRevisionCompleted: {StatusApproved, StatusRevisionRequested},
}

func TransitionAllowed(from, to string) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

func ValidStep(step string) bool {
	return StepRank(step) >= 0
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusApproved, StatusRevisionRequested, StatusRevisionCompleted:
		return true
	default:
		return false
	}
}

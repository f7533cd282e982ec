package evaluationperiod

import "time"

const (
	StatusWaiting    = "WAITING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

const (
	PhaseWaiting         = "WAITING"
	PhaseEvaluationSetup = "EVALUATION_SETUP"
	PhasePerformance     = "PERFORMANCE"
	PhaseSelfEvaluation  = "SELF_EVALUATION"
	PhasePeerEvaluation  = "PEER_EVALUATION"
	PhaseClosure         = "CLOSURE"
)

// phaseOrder is the fixed progression; a period only ever moves forward.
var phaseOrder = []string{
	PhaseEvaluationSetup,
	PhasePerformance,
	PhaseSelfEvaluation,
	PhasePeerEvaluation,
	PhaseClosure,
}

// PhaseRank returns the position of a phase in the progression, -1 for
// WAITING or unknown phases.
func PhaseRank(phase string) int {
	for i, p := range phaseOrder {
		if p == phase {
			return i
		}
	}
	return -1
}

func nextPhaseOf(phase string) (string, bool) {
	rank := PhaseRank(phase)
	if rank < 0 || rank >= len(phaseOrder)-1 {
		return "", false
	}
	return phaseOrder[rank+1], true
}

func (p *EvaluationPeriod) deadlineFor(phase string) *time.Time {
	switch phase {
	case PhaseEvaluationSetup:
		return p.EvaluationSetupDeadline
	case PhasePerformance:
		return p.PerformanceDeadline
	case PhaseSelfEvaluation:
		return p.SelfEvaluationDeadline
	case PhasePeerEvaluation:
		return p.PeerEvaluationDeadline
	default:
		return nil
	}
}

// NextPhase decides whether the period should advance at the given instant.
// It is pure: the wall clock stays at the call boundary so the transition
// rules are testable without mocking time. A period advances at most one
// phase per decision, even when several deadlines have already lapsed.
func NextPhase(p *EvaluationPeriod, now time.Time) (string, bool) {
	if p.Status != StatusInProgress {
		return "", false
	}

	deadline := p.deadlineFor(p.CurrentPhase)
	if deadline == nil || !now.After(*deadline) {
		return "", false
	}

	return nextPhaseOf(p.CurrentPhase)
}

package workflow

// Decision is the quality gate's routing verdict.
type Decision string

const (
	// DecisionApprove routes the draft forward to formatting.
	DecisionApprove Decision = "approve"
	// DecisionRevise routes the draft back to the writer.
	DecisionRevise Decision = "revise"
)

// MaxRevisions bounds the writer-editor cycle. With the initial draft this
// caps writer invocations at MaxRevisions+1 per run.
const MaxRevisions = 2

// Decide converts a quality score, goal threshold, and revision count into a
// routing decision. Once MaxRevisions is reached the draft is accepted
// regardless of score; this is the liveness guarantee for the revision loop.
func Decide(score, threshold, revisionCount int) Decision {
	if score >= threshold {
		return DecisionApprove
	}
	if revisionCount >= MaxRevisions {
		return DecisionApprove
	}
	return DecisionRevise
}

package quest

import "github.com/KayJJUNE/steam-bot/internal/domain"

// OutcomeCode classifies the result of a step attempt. None of these are
// errors in the transport sense; each maps to its own user-facing message and
// idempotent repeats look like successes, not failures.
type OutcomeCode string

const (
	// OutcomeCompleted means this call transitioned the step to complete.
	OutcomeCompleted OutcomeCode = "completed"
	// OutcomeAlreadyComplete is the idempotent no-op signal.
	OutcomeAlreadyComplete OutcomeCode = "already_complete"
	// OutcomeMissingPrerequisite means the step needs a linked Steam
	// account first.
	OutcomeMissingPrerequisite OutcomeCode = "missing_prerequisite"
	// OutcomeMustVisitFirst means the guided step's visit stage has not
	// been acknowledged yet.
	OutcomeMustVisitFirst OutcomeCode = "must_visit_first"
	// OutcomeInvalidEvidence means the submitted account id or URL could
	// not be parsed into a SteamID64.
	OutcomeInvalidEvidence OutcomeCode = "invalid_evidence"
	// OutcomeVerificationFailed means automatic verification did not
	// succeed; state is unchanged.
	OutcomeVerificationFailed OutcomeCode = "verification_failed"
	// OutcomeManualUnavailable means manual confirmation was requested
	// before any automatic check failed.
	OutcomeManualUnavailable OutcomeCode = "manual_unavailable"
)

type Outcome struct {
	Code OutcomeCode
	Step domain.Step
	// Record is the state after the attempt, when it was loaded.
	Record *domain.UserRecord
	// RewardGranted is set when this attempt completed the final step and
	// the role grant succeeded.
	RewardGranted bool
	// ManualAvailable signals the caller may now offer the manual
	// wishlist confirmation path.
	ManualAvailable bool
	// MissingStep names the prerequisite for OutcomeMissingPrerequisite.
	MissingStep domain.Step
}

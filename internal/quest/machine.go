package quest

import (
	"context"
	"errors"
	"log/slog"

	"github.com/KayJJUNE/steam-bot/internal/domain"
	"github.com/KayJJUNE/steam-bot/internal/observability"
	"github.com/KayJJUNE/steam-bot/internal/repository"
	"github.com/KayJJUNE/steam-bot/internal/steam"
)

// Rewarder grants the reward role once all four steps are complete. The
// machine only decides when to call it; idempotency lives behind this
// interface.
type Rewarder interface {
	Grant(ctx context.Context, discordID int64) bool
}

// WishlistChecker is the slice of the steam client the machine needs.
type WishlistChecker interface {
	Check(ctx context.Context, steamID, appID string) steam.WishlistStatus
}

// IdentityVerifier is the slice of the steam client used for step 1.
type IdentityVerifier interface {
	Configured() bool
	ResolveVanity(ctx context.Context, name string) (string, error)
	Verify(ctx context.Context, steamID string) bool
}

var ErrInvalidStep = errors.New("invalid quest step")

// Machine is the quest-progression core. Each call runs to completion
// independently; the only shared mutable state is the record store, whose
// conditional updates make double-clicked confirms collapse to one winner.
type Machine struct {
	users    repository.UserRecordRepository
	verifier IdentityVerifier
	wishlist WishlistChecker
	sessions SessionStore
	rewarder Rewarder
	appID    string
	logger   *slog.Logger
}

func NewMachine(
	users repository.UserRecordRepository,
	verifier IdentityVerifier,
	wishlist WishlistChecker,
	sessions SessionStore,
	rewarder Rewarder,
	appID string,
	logger *slog.Logger,
) *Machine {
	return &Machine{
		users:    users,
		verifier: verifier,
		wishlist: wishlist,
		sessions: sessions,
		rewarder: rewarder,
		appID:    appID,
		logger:   logger,
	}
}

// GetOrCreateUser provisions the record lazily on first interaction.
func (m *Machine) GetOrCreateUser(ctx context.Context, discordID int64) (*domain.UserRecord, error) {
	return m.users.InsertIfAbsent(ctx, discordID)
}

// IsAllComplete re-evaluates completion from the stored flags.
func (m *Machine) IsAllComplete(ctx context.Context, discordID int64) (bool, error) {
	record, err := m.users.Find(ctx, discordID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return record.AllComplete(), nil
}

// MarkVisited acknowledges the advisory visit stage of a guided step.
func (m *Machine) MarkVisited(ctx context.Context, discordID int64, step domain.Step) error {
	if !step.Guided() {
		return ErrInvalidStep
	}
	if _, err := m.users.InsertIfAbsent(ctx, discordID); err != nil {
		return err
	}
	return m.sessions.MarkVisited(ctx, discordID, step)
}

// AttemptStep runs the precondition chain and the step-specific effect.
// Verification failures never mutate state; only a successful verification or
// an explicit manual confirm flips a flag. Returned errors are infrastructure
// failures the caller should present as retryable.
func (m *Machine) AttemptStep(ctx context.Context, discordID int64, step domain.Step, evidence string) (Outcome, error) {
	if !step.Valid() {
		return Outcome{}, ErrInvalidStep
	}

	record, err := m.users.InsertIfAbsent(ctx, discordID)
	if err != nil {
		return Outcome{}, err
	}

	if out, done := m.checkPreconditions(ctx, record, step); done {
		return m.finish(ctx, out), nil
	}

	switch step {
	case domain.StepLinkAccount:
		out, err := m.attemptLink(ctx, discordID, evidence)
		return m.finish(ctx, out), err
	case domain.StepWishlist:
		out, err := m.attemptWishlist(ctx, discordID, *record.SteamID)
		return m.finish(ctx, out), err
	case domain.StepFollow, domain.StepLike:
		// No external signal exists for following or liking; completion
		// is self-attested after the visit acknowledgment.
		out, err := m.completeStep(ctx, discordID, step)
		return m.finish(ctx, out), err
	}
	return Outcome{}, ErrInvalidStep
}

// ManualConfirmWishlist is the escape hatch for the known-unreliable wishlist
// check: callable only after the visit acknowledgment and at least one failed
// automatic attempt.
func (m *Machine) ManualConfirmWishlist(ctx context.Context, discordID int64) (Outcome, error) {
	record, err := m.users.InsertIfAbsent(ctx, discordID)
	if err != nil {
		return Outcome{}, err
	}

	if out, done := m.checkPreconditions(ctx, record, domain.StepWishlist); done {
		return m.finish(ctx, out), nil
	}

	failed, err := m.sessions.FailedChecks(ctx, discordID, domain.StepWishlist)
	if err != nil {
		return Outcome{}, err
	}
	if failed == 0 {
		return m.finish(ctx, Outcome{Code: OutcomeManualUnavailable, Step: domain.StepWishlist, Record: record}), nil
	}

	out, err := m.completeStep(ctx, discordID, domain.StepWishlist)
	return m.finish(ctx, out), err
}

// ResetUser clears the four flags but preserves the linked Steam account.
func (m *Machine) ResetUser(ctx context.Context, discordID int64) error {
	return m.users.ResetUser(ctx, discordID)
}

// ResetAllUsers clears flags for everyone. The confirmation ceremony belongs
// to the caller; by the time this runs the decision is made.
func (m *Machine) ResetAllUsers(ctx context.Context) (int64, error) {
	return m.users.ResetAllUsers(ctx)
}

func (m *Machine) checkPreconditions(ctx context.Context, record *domain.UserRecord, step domain.Step) (Outcome, bool) {
	if record.StepComplete(step) {
		return Outcome{Code: OutcomeAlreadyComplete, Step: step, Record: record}, true
	}
	if step != domain.StepLinkAccount && !record.Linked() {
		return Outcome{Code: OutcomeMissingPrerequisite, Step: step, Record: record, MissingStep: domain.StepLinkAccount}, true
	}
	if step.Guided() {
		visited, err := m.sessions.Visited(ctx, record.DiscordID, step)
		if err != nil {
			// Session-store trouble should not strand the flow; treat
			// it as not yet visited and let the user re-acknowledge.
			m.logger.WarnContext(ctx, "session store read failed",
				"discord_id", record.DiscordID, "step", step.String(), "error", err)
			visited = false
		}
		if !visited {
			return Outcome{Code: OutcomeMustVisitFirst, Step: step, Record: record}, true
		}
	}
	return Outcome{}, false
}

func (m *Machine) attemptLink(ctx context.Context, discordID int64, evidence string) (Outcome, error) {
	input, err := steam.ParseProfileInput(evidence)
	if err != nil {
		return Outcome{Code: OutcomeInvalidEvidence, Step: domain.StepLinkAccount}, nil
	}

	steamID := input.SteamID
	if input.Vanity != "" {
		steamID, err = m.verifier.ResolveVanity(ctx, input.Vanity)
		if err != nil {
			return Outcome{Code: OutcomeInvalidEvidence, Step: domain.StepLinkAccount}, nil
		}
	}
	if !m.verifier.Configured() && !steam.ValidIDFormat(steamID) {
		return Outcome{Code: OutcomeInvalidEvidence, Step: domain.StepLinkAccount}, nil
	}

	if !m.verifier.Verify(ctx, steamID) {
		return Outcome{Code: OutcomeVerificationFailed, Step: domain.StepLinkAccount}, nil
	}

	changed, err := m.users.LinkSteamAccount(ctx, discordID, steamID)
	if err != nil {
		return Outcome{}, err
	}
	record, err := m.users.Find(ctx, discordID)
	if err != nil {
		return Outcome{}, err
	}
	if !changed {
		// Lost a race against another link attempt; the stored account wins.
		return Outcome{Code: OutcomeAlreadyComplete, Step: domain.StepLinkAccount, Record: record}, nil
	}
	return m.afterTransition(ctx, domain.StepLinkAccount, record), nil
}

func (m *Machine) attemptWishlist(ctx context.Context, discordID int64, steamID string) (Outcome, error) {
	status := m.wishlist.Check(ctx, steamID, m.appID)
	if status != steam.WishlistPresent {
		// Absent and Unknown collapse to the same outcome; the manual
		// path opens either way because the channel itself is suspect.
		if err := m.sessions.RecordFailedCheck(ctx, discordID, domain.StepWishlist); err != nil {
			m.logger.WarnContext(ctx, "failed-check bookkeeping failed",
				"discord_id", discordID, "error", err)
		}
		m.logger.InfoContext(ctx, "wishlist verification did not succeed",
			"discord_id", discordID, "status", status.String())
		return Outcome{
			Code:            OutcomeVerificationFailed,
			Step:            domain.StepWishlist,
			ManualAvailable: true,
		}, nil
	}
	return m.completeStep(ctx, discordID, domain.StepWishlist)
}

func (m *Machine) completeStep(ctx context.Context, discordID int64, step domain.Step) (Outcome, error) {
	changed, err := m.users.MarkStepComplete(ctx, discordID, step)
	if err != nil {
		return Outcome{}, err
	}
	record, err := m.users.Find(ctx, discordID)
	if err != nil {
		return Outcome{}, err
	}
	if !changed {
		return Outcome{Code: OutcomeAlreadyComplete, Step: step, Record: record}, nil
	}
	if err := m.sessions.Clear(ctx, discordID, step); err != nil {
		m.logger.WarnContext(ctx, "session clear failed", "discord_id", discordID, "error", err)
	}
	return m.afterTransition(ctx, step, record), nil
}

// afterTransition re-evaluates completion after a flag flip. Only the call
// that performed the final transition reaches the rewarder, and the rewarder
// itself is idempotent on top of that.
func (m *Machine) afterTransition(ctx context.Context, step domain.Step, record *domain.UserRecord) Outcome {
	out := Outcome{Code: OutcomeCompleted, Step: step, Record: record}
	if record.AllComplete() {
		out.RewardGranted = m.rewarder.Grant(ctx, record.DiscordID)
	}
	return out
}

func (m *Machine) finish(ctx context.Context, out Outcome) Outcome {
	observability.RecordQuestOutcome(ctx, out.Step.String(), string(out.Code))
	return out
}

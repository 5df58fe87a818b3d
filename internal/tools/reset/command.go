package reset

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/KayJJUNE/steam-bot/internal/domain"
	"github.com/KayJJUNE/steam-bot/internal/repository"
)

// ConfirmAllPhrase must be passed verbatim to reset every user. Typing it is
// the whole safety mechanism, same as the original console script.
const ConfirmAllPhrase = "RESET ALL"

var ErrConfirmationMismatch = errors.New("confirmation phrase does not match")

// User clears one user's quest flags, preserving the linked Steam account so
// the flow can be retested without relinking.
func User(ctx context.Context, users repository.UserRecordRepository, discordID int64, out io.Writer) error {
	record, err := users.Find(ctx, discordID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			fmt.Fprintf(out, "user %d not found\n", discordID)
		}
		return err
	}

	fmt.Fprintf(out, "current status for user %d:\n", discordID)
	steamID := "not set"
	if record.SteamID != nil {
		steamID = *record.SteamID
	}
	fmt.Fprintf(out, "  steam id: %s\n", steamID)
	for _, step := range domain.AllSteps {
		fmt.Fprintf(out, "  %s complete: %t\n", step.String(), record.StepComplete(step))
	}

	if err := users.ResetUser(ctx, discordID); err != nil {
		return err
	}
	fmt.Fprintf(out, "reset all quest flags for user %d (steam id preserved: %s)\n", discordID, steamID)
	return nil
}

// All clears quest flags for every user. Refuses to run unless the caller
// supplies the exact confirmation phrase.
func All(ctx context.Context, users repository.UserRecordRepository, confirm string, out io.Writer) (int64, error) {
	if confirm != ConfirmAllPhrase {
		return 0, ErrConfirmationMismatch
	}
	count, err := users.ResetAllUsers(ctx)
	if err != nil {
		return 0, err
	}
	fmt.Fprintf(out, "reset quest flags for %d users\n", count)
	return count, nil
}

package stats

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/KayJJUNE/steam-bot/internal/domain"
	"github.com/KayJJUNE/steam-bot/internal/repository"
)

// Run prints the milestone report: aggregate counts, the users at each
// milestone, and any Steam accounts linked by more than one Discord user.
func Run(ctx context.Context, users repository.UserRecordRepository, out io.Writer) error {
	stats, err := users.MilestoneStats(ctx)
	if err != nil {
		return fmt.Errorf("load milestone stats: %w", err)
	}

	fmt.Fprintln(out, "=== Quest Milestones ===")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total users\t%d\n", stats.TotalUsers)
	fmt.Fprintf(w, "linked steam accounts\t%d\n", stats.LinkedAccounts)
	fmt.Fprintf(w, "completed through step 2\t%d\n", stats.CompletedThrough2)
	fmt.Fprintf(w, "completed through step 3\t%d\n", stats.CompletedThrough3)
	fmt.Fprintf(w, "completed all steps\t%d\n", stats.CompletedAll)
	if err := w.Flush(); err != nil {
		return err
	}

	for _, step := range []domain.Step{domain.StepWishlist, domain.StepFollow, domain.StepLike} {
		records, err := users.ListCompletedThrough(ctx, step)
		if err != nil {
			return fmt.Errorf("list users through step %d: %w", int(step), err)
		}
		fmt.Fprintf(out, "\n=== Completed through step %d (%d users) ===\n", int(step), len(records))
		lw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(lw, "discord id\tsteam id\tjoined")
		for _, r := range records {
			steamID := "-"
			if r.SteamID != nil {
				steamID = *r.SteamID
			}
			fmt.Fprintf(lw, "%d\t%s\t%s\n", r.DiscordID, steamID, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		if err := lw.Flush(); err != nil {
			return err
		}
	}

	dupes, err := users.DuplicateSteamIDs(ctx)
	if err != nil {
		return fmt.Errorf("load duplicate steam ids: %w", err)
	}
	fmt.Fprintf(out, "\n=== Steam accounts linked by multiple users (%d) ===\n", len(dupes))
	dw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, d := range dupes {
		fmt.Fprintf(dw, "%s\t%d users\n", d.SteamID, d.Count)
	}
	return dw.Flush()
}

package reward

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/KayJJUNE/steam-bot/internal/observability"
)

// ErrForbidden is returned by RoleService implementations when the bot lacks
// permission to manage the role. It separates configuration problems from
// transient transport failures.
var ErrForbidden = errors.New("missing permission to manage role")

// RoleService is the slice of the chat platform the dispatcher needs.
type RoleService interface {
	RoleExists(ctx context.Context, guildID, roleID string) (bool, error)
	MemberHasRole(ctx context.Context, guildID, userID, roleID string) (bool, error)
	AddMemberRole(ctx context.Context, guildID, userID, roleID string) error
}

// GrantResult classifies a grant attempt for logging and metrics. Callers
// only branch on success.
type GrantResult string

const (
	GrantGranted     GrantResult = "granted"
	GrantAlreadyHeld GrantResult = "already_held"
	GrantConfigError GrantResult = "config_error"
	GrantTransient   GrantResult = "transient_error"
)

func (r GrantResult) Success() bool {
	return r == GrantGranted || r == GrantAlreadyHeld
}

// Dispatcher assigns the reward role at most once per user. It does not
// re-check quest flags; by the time it runs the state machine has already
// established completion.
type Dispatcher struct {
	roles   RoleService
	guildID string
	roleID  string
	logger  *slog.Logger
}

func NewDispatcher(roles RoleService, guildID, roleID string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{roles: roles, guildID: guildID, roleID: roleID, logger: logger}
}

// Grant reports whether the user holds the role after the call. An existing
// membership is success without a second add; configuration problems are
// logged for the operator and surface to the user as "contact an admin".
func (d *Dispatcher) Grant(ctx context.Context, discordID int64) bool {
	result := d.grant(ctx, discordID)
	observability.RecordRewardEvent(ctx, string(result))
	return result.Success()
}

func (d *Dispatcher) grant(ctx context.Context, discordID int64) GrantResult {
	userID := strconv.FormatInt(discordID, 10)

	if d.guildID == "" || d.roleID == "" {
		d.logger.ErrorContext(ctx, "reward role not configured", "user_id", userID)
		return GrantConfigError
	}

	exists, err := d.roles.RoleExists(ctx, d.guildID, d.roleID)
	if err != nil {
		d.logger.WarnContext(ctx, "reward role lookup failed", "user_id", userID, "error", err)
		return GrantTransient
	}
	if !exists {
		d.logger.ErrorContext(ctx, "reward role missing from guild",
			"guild_id", d.guildID, "role_id", d.roleID)
		return GrantConfigError
	}

	held, err := d.roles.MemberHasRole(ctx, d.guildID, userID, d.roleID)
	if err != nil {
		d.logger.WarnContext(ctx, "membership lookup failed", "user_id", userID, "error", err)
		return GrantTransient
	}
	if held {
		return GrantAlreadyHeld
	}

	if err := d.roles.AddMemberRole(ctx, d.guildID, userID, d.roleID); err != nil {
		if errors.Is(err, ErrForbidden) {
			d.logger.ErrorContext(ctx, "bot lacks permission to assign reward role",
				"guild_id", d.guildID, "role_id", d.roleID)
			return GrantConfigError
		}
		d.logger.WarnContext(ctx, "role assignment failed", "user_id", userID, "error", err)
		return GrantTransient
	}

	d.logger.InfoContext(ctx, "reward role granted", "user_id", userID, "role_id", d.roleID)
	return GrantGranted
}

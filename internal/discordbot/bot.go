package discordbot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KayJJUNE/steam-bot/internal/config"
	"github.com/KayJJUNE/steam-bot/internal/domain"
	"github.com/KayJJUNE/steam-bot/internal/quest"
)

const retryableMessage = "⚠️ Something went wrong on our side. Please try again in a moment."

// Bot owns the Discord session and routes interactions into the quest
// machine. All replies are ephemeral; quest state lives in the store, never
// in the view.
type Bot struct {
	session *discordgo.Session
	machine *quest.Machine
	cfg     *config.Config
	logger  *slog.Logger
}

func New(session *discordgo.Session, machine *quest.Machine, cfg *config.Config, logger *slog.Logger) *Bot {
	return &Bot{session: session, machine: machine, cfg: cfg, logger: logger}
}

// NewSession builds the gateway session. Slash commands and components need
// no privileged intents.
func NewSession(cfg *config.Config) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds
	return session, nil
}

// Start opens the gateway connection and registers the /steam command.
func (b *Bot) Start() error {
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("discord session ready", "user", r.User.String())
	cmd := &discordgo.ApplicationCommand{
		Name:        "steam",
		Description: "Start the Spot Zero Hunter Program",
	}
	if _, err := s.ApplicationCommandCreate(r.User.ID, b.cfg.DiscordGuildID, cmd); err != nil {
		b.logger.Error("slash command registration failed", "error", err)
		return
	}
	b.logger.Info("slash command registered", "command", cmd.Name)
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	discordID, err := interactionUserID(i)
	if err != nil {
		b.logger.Warn("interaction without resolvable user", "error", err)
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.ApplicationCommandData().Name == "steam" {
			b.handleSteamCommand(ctx, s, i, discordID)
		}
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, s, i, discordID, i.MessageComponentData().CustomID)
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == customIDLinkModal {
			b.handleLinkSubmit(ctx, s, i, discordID)
		}
	}
}

func (b *Bot) handleSteamCommand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, discordID int64) {
	record, err := b.machine.GetOrCreateUser(ctx, discordID)
	if err != nil {
		b.logger.ErrorContext(ctx, "user provisioning failed", "discord_id", discordID, "error", err)
		b.respondEphemeral(s, i, retryableMessage, nil)
		return
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{questEmbed(record, b.cfg.TargetWishlistCount)},
			Components: questComponents(b.cfg.StorePageURL, b.cfg.CommunityPostURL),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.WarnContext(ctx, "interaction response failed", "error", err)
	}
}

func (b *Bot) handleComponent(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, discordID int64, customID string) {
	switch {
	case customID == customIDLink:
		b.handleLinkButton(ctx, s, i, discordID)
	case customID == customIDManualWishlist:
		out, err := b.machine.ManualConfirmWishlist(ctx, discordID)
		b.respondOutcome(ctx, s, i, out, err)
	case strings.HasPrefix(customID, "quest_visit_"):
		b.handleVisit(ctx, s, i, discordID, customID)
	case strings.HasPrefix(customID, "quest_confirm_"):
		step, ok := stepFromCustomID(customID, "quest_confirm_")
		if !ok {
			return
		}
		out, err := b.machine.AttemptStep(ctx, discordID, step, "")
		b.respondOutcome(ctx, s, i, out, err)
	}
}

func (b *Bot) handleLinkButton(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, discordID int64) {
	record, err := b.machine.GetOrCreateUser(ctx, discordID)
	if err != nil {
		b.logger.ErrorContext(ctx, "user provisioning failed", "discord_id", discordID, "error", err)
		b.respondEphemeral(s, i, retryableMessage, nil)
		return
	}
	if record.Quest1Complete {
		b.respondEphemeral(s, i, alreadyCompleteMessage(domain.StepLinkAccount), nil)
		return
	}
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: linkModal(),
	})
	if err != nil {
		b.logger.WarnContext(ctx, "modal response failed", "error", err)
	}
}

func (b *Bot) handleVisit(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, discordID int64, customID string) {
	step, ok := stepFromCustomID(customID, "quest_visit_")
	if !ok {
		return
	}
	if err := b.machine.MarkVisited(ctx, discordID, step); err != nil {
		b.logger.ErrorContext(ctx, "visit acknowledgment failed", "discord_id", discordID, "error", err)
		b.respondEphemeral(s, i, retryableMessage, nil)
		return
	}
	url := b.cfg.StorePageURL
	if step == domain.StepLike {
		url = b.cfg.CommunityPostURL
	}
	b.respondEphemeral(s, i, visitMessage(step, url), nil)
}

func (b *Bot) handleLinkSubmit(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, discordID int64) {
	evidence := strings.TrimSpace(modalInputValue(i.ModalSubmitData(), customIDLinkInput))
	out, err := b.machine.AttemptStep(ctx, discordID, domain.StepLinkAccount, evidence)
	b.respondOutcome(ctx, s, i, out, err)
}

func (b *Bot) respondOutcome(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, out quest.Outcome, err error) {
	if err != nil {
		b.logger.ErrorContext(ctx, "step attempt failed", "error", err)
		b.respondEphemeral(s, i, retryableMessage, nil)
		return
	}
	var components []discordgo.MessageComponent
	if out.ManualAvailable {
		components = manualConfirmComponents()
	}
	b.respondEphemeral(s, i, outcomeMessage(out), components)
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Warn("interaction response failed", "error", err)
	}
}

func interactionUserID(i *discordgo.InteractionCreate) (int64, error) {
	var raw string
	switch {
	case i.Member != nil && i.Member.User != nil:
		raw = i.Member.User.ID
	case i.User != nil:
		raw = i.User.ID
	default:
		return 0, fmt.Errorf("interaction carries no user")
	}
	return strconv.ParseInt(raw, 10, 64)
}

func stepFromCustomID(customID, prefix string) (domain.Step, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(customID, prefix))
	if err != nil {
		return 0, false
	}
	step := domain.Step(n)
	return step, step.Valid() && step.Guided()
}

func modalInputValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

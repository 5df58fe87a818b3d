package discordbot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/KayJJUNE/steam-bot/internal/domain"
	"github.com/KayJJUNE/steam-bot/internal/quest"
)

const (
	customIDLink      = "quest_link"
	customIDLinkModal = "quest_link_modal"
	customIDLinkInput = "steam_input"
)

func visitCustomID(step domain.Step) string   { return fmt.Sprintf("quest_visit_%d", int(step)) }
func confirmCustomID(step domain.Step) string { return fmt.Sprintf("quest_confirm_%d", int(step)) }

const customIDManualWishlist = "quest_manual_2"

func stepStatus(record *domain.UserRecord, step domain.Step) string {
	if record != nil && record.StepComplete(step) {
		return "✅ Complete"
	}
	return "❌ Incomplete"
}

func questEmbed(record *domain.UserRecord, targetWishlistCount int) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(domain.AllSteps))
	for _, step := range domain.AllSteps {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   step.Title(),
			Value:  stepStatus(record, step),
			Inline: false,
		})
	}
	return &discordgo.MessageEmbed{
		Title: "Welcome to Spot Zero Hunter Program",
		Description: fmt.Sprintf("**Wishlist Milestone**\n%s",
			progressBar(currentWishlistCount, targetWishlistCount, 10)),
		Color:  0x3498db,
		Fields: fields,
	}
}

// questComponents builds the button rows. Guided steps get a visit/confirm
// pair; the visit button replies with the external link and unlocks confirm.
func questComponents(storeURL, postURL string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "🔗 Link Steam ID",
				Style:    discordgo.PrimaryButton,
				CustomID: customIDLink,
			},
			discordgo.Button{
				Label:    "🎁 Open Wishlist Page",
				Style:    discordgo.SecondaryButton,
				CustomID: visitCustomID(domain.StepWishlist),
			},
			discordgo.Button{
				Label:    "🎁 Verify Wishlist",
				Style:    discordgo.PrimaryButton,
				CustomID: confirmCustomID(domain.StepWishlist),
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "⭐ Open Store Page",
				Style:    discordgo.SecondaryButton,
				CustomID: visitCustomID(domain.StepFollow),
			},
			discordgo.Button{
				Label:    "⭐ I am Following",
				Style:    discordgo.SuccessButton,
				CustomID: confirmCustomID(domain.StepFollow),
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "👍 Open Community Post",
				Style:    discordgo.SecondaryButton,
				CustomID: visitCustomID(domain.StepLike),
			},
			discordgo.Button{
				Label:    "👍 I have Liked the post",
				Style:    discordgo.SuccessButton,
				CustomID: confirmCustomID(domain.StepLike),
			},
		}},
	}
}

func manualConfirmComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "✅ I added it to my wishlist",
				Style:    discordgo.SuccessButton,
				CustomID: customIDManualWishlist,
			},
		}},
	}
}

func linkModal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: customIDLinkModal,
		Title:    "Link your Steam account",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    customIDLinkInput,
					Label:       "Steam ID or Profile URL",
					Style:       discordgo.TextInputShort,
					Placeholder: "SteamID64 or https://steamcommunity.com/profiles/...",
					Required:    true,
					MaxLength:   200,
				},
			}},
		},
	}
}

// outcomeMessage maps every outcome to a distinct human-readable reply.
// AlreadyComplete reads as positively as success; idempotent repeats must
// never look like errors.
func outcomeMessage(out quest.Outcome) string {
	switch out.Code {
	case quest.OutcomeCompleted:
		msg := completedMessage(out.Step)
		if out.Record != nil && out.Record.AllComplete() {
			if out.RewardGranted {
				msg += "\n🎉 All quests complete — the Hunter role is yours!"
			} else {
				msg += "\n🎉 All quests complete! The role could not be assigned right now, please contact an administrator."
			}
		}
		return msg
	case quest.OutcomeAlreadyComplete:
		return alreadyCompleteMessage(out.Step)
	case quest.OutcomeMissingPrerequisite:
		return "❌ Please link your Steam account first!"
	case quest.OutcomeMustVisitFirst:
		return "❌ Open the page with the button above first, then confirm."
	case quest.OutcomeInvalidEvidence:
		return "❌ That is not a valid Steam ID or profile URL. Please enter a SteamID64 or your profile URL."
	case quest.OutcomeVerificationFailed:
		if out.Step == domain.StepWishlist {
			return "❌ We could not verify your wishlist. Make sure your Steam profile is public, or confirm manually below."
		}
		return "❌ We could not verify that Steam ID. Please check it and try again."
	case quest.OutcomeManualUnavailable:
		return "❌ Try the automatic wishlist check first; manual confirmation unlocks if it fails."
	}
	return "Something unexpected happened, please try again."
}

func completedMessage(step domain.Step) string {
	switch step {
	case domain.StepLinkAccount:
		return "✅ Steam account linked successfully!"
	case domain.StepWishlist:
		return "✅ Wishlist verified!"
	case domain.StepFollow:
		return "✅ Follow confirmed!"
	case domain.StepLike:
		return "✅ Like confirmed!"
	}
	return "✅ Done!"
}

func alreadyCompleteMessage(step domain.Step) string {
	switch step {
	case domain.StepLinkAccount:
		return "✅ Your Steam account is already linked!"
	case domain.StepWishlist:
		return "✅ Your wishlist is already verified!"
	case domain.StepFollow:
		return "✅ Your follow is already confirmed!"
	case domain.StepLike:
		return "✅ Your like is already confirmed!"
	}
	return "✅ Already done!"
}

func visitMessage(step domain.Step, url string) string {
	switch step {
	case domain.StepWishlist:
		return fmt.Sprintf("🎁 Add the game to your wishlist here: %s\nThen press **Verify Wishlist**.", url)
	case domain.StepFollow:
		return fmt.Sprintf("⭐ Follow the store page here: %s\nThen press **I am Following**.", url)
	case domain.StepLike:
		return fmt.Sprintf("👍 Like (and comment on) the post here: %s\nThen press **I have Liked the post**.", url)
	}
	return url
}

package domain

import "fmt"

// Step identifies one of the four quest steps. Steps 2-4 require a linked
// Steam account before they can be attempted.
type Step int

const (
	StepLinkAccount Step = 1
	StepWishlist    Step = 2
	StepFollow      Step = 3
	StepLike        Step = 4
)

// AllSteps lists the steps in display order.
var AllSteps = [4]Step{StepLinkAccount, StepWishlist, StepFollow, StepLike}

func (s Step) Valid() bool {
	return s >= StepLinkAccount && s <= StepLike
}

// Guided reports whether the step uses the visit-then-confirm flow.
func (s Step) Guided() bool {
	return s == StepWishlist || s == StepFollow || s == StepLike
}

func (s Step) String() string {
	switch s {
	case StepLinkAccount:
		return "link_account"
	case StepWishlist:
		return "wishlist"
	case StepFollow:
		return "follow"
	case StepLike:
		return "like"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Title is the user-facing name used in the quest embed.
func (s Step) Title() string {
	switch s {
	case StepLinkAccount:
		return "Quest 1: Steam Account Linking"
	case StepWishlist:
		return "Quest 2: Wishlist Verification"
	case StepFollow:
		return "Quest 3: Follow the Store Page"
	case StepLike:
		return "Quest 4: Community Like"
	}
	return ""
}

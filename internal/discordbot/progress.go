package discordbot

import (
	"fmt"
	"strings"
)

// currentWishlistCount stands in for the campaign's live wishlist total until
// a data source for it exists; Steam exposes no public aggregate endpoint.
const currentWishlistCount = 32500

// progressBar renders the wishlist-milestone bar shown at the top of the
// quest embed, e.g. [██████░░░░] 32,500 / 50,000.
func progressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "] 0 / 0"
	}
	if current > total {
		current = total
	}
	filled := current * length / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
	return fmt.Sprintf("[%s] %s / %s", bar, groupDigits(current), groupDigits(total))
}

func groupDigits(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

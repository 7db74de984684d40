// Package moderation holds the keyword based content screening applied to
// user submitted text before it is published.
package moderation

import "strings"

// bannedWords is the fixed screening list. Matching is case-insensitive
// substring containment; anything that hits is held for manual review rather
// than rejected outright.
var bannedWords = []string{
	// Link dropping and promotion spam.
	"http://",
	"https://",
	".xyz",
	"buy now",
	"free promo",
	"huge discount",
	"click here",

	// Adult or illegal content.
	"porn",
	"narcotics",
	"gambling",

	// Threats and hate.
	"kill yourself",
	"terrorist",

	// Sensitive personal information solicitation.
	"credit card number",
	"bank account number",
	"home address",

	// Impersonation bait that warrants extra review.
	"admin",
	"moderator",
}

// IsSpam reports whether the content contains any banned substring.
func IsSpam(content string) bool {
	normalized := strings.ToLower(content)
	for _, word := range bannedWords {
		if strings.Contains(normalized, word) {
			return true
		}
	}
	return false
}

package storage

import (
	"fmt"
	"strings"
)

func identityKey(subject, category string) string {
	if subject == "" && category == "" {
		return ""
	}
	return fmt.Sprintf("%s|%s", subject, category)
}

// payoutSubject is the identity of a tier within its category.
func payoutSubject(level string) string {
	return strings.ToLower(strings.TrimSpace(level))
}

// payoutKey tells apart tiers sharing a level within one category by their
// position among them.
func payoutKey(level, category string, occurrence int) string {
	return fmt.Sprintf("%s|%d", identityKey(level, category), occurrence)
}

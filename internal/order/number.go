package order

import "strings"

const numberPrefix = "DM-"

// Number derives the human-facing order number from the order's own id:
// the last six characters of the id (hyphens stripped), uppercased, behind
// the store tag. Uniqueness follows from id uniqueness; no clock involved.
func Number(id string) string {
	s := strings.ReplaceAll(id, "-", "")
	if len(s) > 6 {
		s = s[len(s)-6:]
	}
	return numberPrefix + strings.ToUpper(s)
}

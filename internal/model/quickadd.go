package model

import "strings"

// QuickAdd is feedback parsed from a one-line entry such as
// "Dark mode #ui #themes status:planned"
type QuickAdd struct {
	Title  string
	Tags   []string
	Status Status
}

// ParseQuickAdd splits tags (#name) and a status (status:value) out of text.
// Words that look like a status but don't name one stay in the title.
// Status is empty when none was given.
func ParseQuickAdd(text string) QuickAdd {
	var q QuickAdd
	var titleParts []string

	for _, word := range strings.Fields(text) {
		lower := strings.ToLower(word)
		switch {
		case strings.HasPrefix(word, "#") && len(word) > 1:
			name := NormalizeTagName(word)
			if name != "" && !containsFold(q.Tags, name) {
				q.Tags = append(q.Tags, name)
			}

		case strings.HasPrefix(lower, "status:"):
			if info, ok := LookupStatus(strings.TrimPrefix(lower, "status:")); ok {
				q.Status = info.Status
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	q.Title = strings.Join(titleParts, " ")
	return q
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

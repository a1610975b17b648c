package board

import "strings"

// Classifier decides whether a column counts as a completion stage.
// Rework counting, completedAt and every workload metric that talks
// about "completed" go through this single decision.
type Classifier interface {
	Done(c Column) bool
}

// DoneKeywords are the substrings the title heuristic matches,
// case-insensitively. "complet" covers both "completed" and the
// Italian "completato"; "fatto" is the localized column name the
// original boards ship with.
var DoneKeywords = []string{"done", "fatto", "complet"}

// TitleClassifier classifies by substring match on the column title.
// This mirrors the historical behavior: renaming a done column to
// something outside the keyword list silently stops rework counting,
// which is why FlagClassifier exists.
type TitleClassifier struct {
	Keywords []string // defaults to DoneKeywords when empty
}

func (tc TitleClassifier) Done(c Column) bool {
	keywords := tc.Keywords
	if len(keywords) == 0 {
		keywords = DoneKeywords
	}
	title := strings.ToLower(c.Title)
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// FlagClassifier trusts the column's explicit Terminal flag.
type FlagClassifier struct{}

func (FlagClassifier) Done(c Column) bool { return c.Terminal }

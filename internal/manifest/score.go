package manifest

import (
	"github.com/gujord/pwa-validator/internal/model"
)

// Field weights. They add up to 100.
const (
	WeightName       = 20
	WeightStartURL   = 20
	WeightIcons      = 20
	WeightShortName  = 10
	WeightDisplay    = 10
	WeightBackground = 10
	WeightTheme      = 10
)

// Score grants weighted points for the manifest's members and suggests a fix
// for each one that is missing. A nil manifest scores 0 with exactly the
// add-a-manifest suggestion.
func Score(m *model.Manifest, pageURL string) (int, []model.Suggestion) {
	if m == nil {
		return 0, []model.Suggestion{addManifest(pageURL)}
	}

	score := 0
	var suggestions []model.Suggestion
	check := func(value string, weight int, missing func(string) model.Suggestion) {
		if value != "" {
			score += weight
			return
		}
		suggestions = append(suggestions, missing(pageURL))
	}

	check(m.Name, WeightName, missingName)
	check(m.StartURL, WeightStartURL, missingStartURL)

	iconScore, iconSuggestions := ScoreIcons(m.Icons, pageURL)
	score += iconScore
	suggestions = append(suggestions, iconSuggestions...)

	check(m.ShortName, WeightShortName, missingShortName)
	check(m.Display, WeightDisplay, missingDisplay)
	check(m.BackgroundColor, WeightBackground, missingBackground)
	check(m.ThemeColor, WeightTheme, missingTheme)

	return score, suggestions
}

package manifest

import (
	"strings"

	"github.com/gujord/pwa-validator/internal/model"
)

const (
	noIconsWarning = "No icons found in manifest"
	size192        = "192x192"
	size512        = "512x512"
	purposeMask    = "maskable"
)

// ValidateIcons checks the icon set for a 192x192 icon, a 512x512 icon and a
// maskable icon, returning one warning per unmet condition. An empty set
// yields the single no-icons warning.
func ValidateIcons(icons []model.Icon) []string {
	if len(icons) == 0 {
		return []string{noIconsWarning}
	}
	var has192, has512, hasMaskable bool
	for _, icon := range icons {
		sizes := strings.Fields(icon.Sizes)
		has192 = has192 || contains(sizes, size192)
		has512 = has512 || contains(sizes, size512)
		hasMaskable = hasMaskable || contains(strings.Fields(icon.Purpose), purposeMask)
	}

	var issues []string
	if !has192 {
		issues = append(issues, "Missing 192x192 icon")
	}
	if !has512 {
		issues = append(issues, "Missing 512x512 icon")
	}
	if !hasMaskable {
		issues = append(issues, "Missing maskable icon")
	}
	return issues
}

// ScoreIcons grants the icon weight only when ValidateIcons reports nothing.
// A shortfall costs the whole weight and is reported as suggestions.
func ScoreIcons(icons []model.Icon, pageURL string) (int, []model.Suggestion) {
	if len(icons) == 0 {
		return 0, []model.Suggestion{missingIcons(pageURL)}
	}
	issues := ValidateIcons(icons)
	if len(issues) == 0 {
		return WeightIcons, nil
	}
	return 0, []model.Suggestion{incompleteIcons(pageURL, issues)}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if strings.EqualFold(s, want) {
			return true
		}
	}
	return false
}

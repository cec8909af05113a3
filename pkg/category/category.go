package category

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// CustomPrefix marks user-created categories. Predefined tags are stored bare.
const CustomPrefix = "custom:"

// Predefined learning category tags shipped with the app.
var Predefined = []string{
	"technology",
	"science",
	"history",
	"business",
	"health",
	"languages",
	"arts",
	"productivity",
}

// Daily reading time presets (minutes). Anything else must pass the custom bound.
var DailyMinutesPresets = []int{5, 10, 15, 20, 30, 45, 60}

const (
	MinCustomMinutes = 5
	MaxCustomMinutes = 120
)

var validate = validator.New()

// Normalize lowercases a raw category name and collapses internal whitespace.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NewCustomCategory turns raw user input into the stored custom tag form,
// e.g. "  Machine   Learning " -> "custom:machine learning".
func NewCustomCategory(name string) (string, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return "", fmt.Errorf("category name cannot be empty")
	}
	return CustomPrefix + normalized, nil
}

// IsCustom reports whether tag is a user-created category.
func IsCustom(tag string) bool {
	return strings.HasPrefix(tag, CustomPrefix)
}

// IsPredefined reports whether tag is one of the built-in categories.
func IsPredefined(tag string) bool {
	for _, p := range Predefined {
		if p == tag {
			return true
		}
	}
	return false
}

// CustomCategoryDisplayName converts a stored custom tag back to a
// human-readable title, e.g. "custom:machine learning" -> "Machine Learning".
// Non-custom tags are returned title-cased as well.
func CustomCategoryDisplayName(tag string) string {
	name := strings.TrimPrefix(tag, CustomPrefix)
	words := strings.Fields(name)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Toggle adds tag to the set if absent, removes it if present. Membership is
// decided on the normalized form so "custom:Go" and "custom:go" never coexist.
// The input slice is not mutated.
func Toggle(categories []string, tag string) []string {
	key := canonical(tag)
	out := make([]string, 0, len(categories)+1)
	removed := false
	for _, c := range categories {
		if canonical(c) == key {
			removed = true
			continue
		}
		out = append(out, c)
	}
	if !removed {
		out = append(out, tag)
	}
	return out
}

// Dedupe removes duplicate normalized entries, keeping first occurrences.
func Dedupe(categories []string) []string {
	seen := make(map[string]bool, len(categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		key := canonical(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func canonical(tag string) string {
	if IsCustom(tag) {
		return CustomPrefix + Normalize(strings.TrimPrefix(tag, CustomPrefix))
	}
	return Normalize(tag)
}

// IsPresetMinutes reports whether minutes is one of the fixed presets.
func IsPresetMinutes(minutes int) bool {
	for _, p := range DailyMinutesPresets {
		if p == minutes {
			return true
		}
	}
	return false
}

// ValidateCustomMinutes checks a custom daily reading time against the
// allowed bound [MinCustomMinutes, MaxCustomMinutes].
func ValidateCustomMinutes(minutes int) error {
	if err := validate.Var(minutes, fmt.Sprintf("gte=%d", MinCustomMinutes)); err != nil {
		return fmt.Errorf("daily minutes must be at least %d (minimum)", MinCustomMinutes)
	}
	if err := validate.Var(minutes, fmt.Sprintf("lte=%d", MaxCustomMinutes)); err != nil {
		return fmt.Errorf("daily minutes must be at most %d (maximum)", MaxCustomMinutes)
	}
	return nil
}

// ValidateDailyMinutes accepts either a preset or a valid custom value.
func ValidateDailyMinutes(minutes int) error {
	if IsPresetMinutes(minutes) {
		return nil
	}
	return ValidateCustomMinutes(minutes)
}

// ValidateNotificationTime checks the "HH:MM" reminder time format.
func ValidateNotificationTime(value string) error {
	if err := validate.Var(value, "datetime=15:04"); err != nil {
		return fmt.Errorf("notification time must be in HH:MM format")
	}
	return nil
}

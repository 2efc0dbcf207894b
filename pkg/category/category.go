// Package category maps Starling spending-category codes to display
// labels and holds the static allow-list used to gate edits.
package category

import (
	_ "embed"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var rawCategories []byte

var known = mustLoad()

type categoryFile struct {
	SpendingCategories []string `yaml:"spendingCategories"`
}

func mustLoad() []string {
	var f categoryFile
	if err := yaml.Unmarshal(rawCategories, &f); err != nil {
		panic(fmt.Sprintf("category: embedded categories.yaml is invalid: %v", err))
	}
	return f.SpendingCategories
}

// Known returns every spending-category code accepted by Recategorize,
// in allow-list order.
func Known() []string {
	out := make([]string, len(known))
	copy(out, known)
	return out
}

// IsKnown reports whether code is in the allow-list.
func IsKnown(code string) bool {
	for _, c := range known {
		if c == code {
			return true
		}
	}
	return false
}

// UnknownCategoryError is returned when an edit names a code outside the
// allow-list. It is raised locally, before any request is made.
type UnknownCategoryError struct {
	Code string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown spending category %q", e.Code)
}

// Format turns an upper-snake-case code into a title-case label:
// "EATING_OUT" -> "Eating Out", "DIY" -> "Diy". The transform is purely
// mechanical; unknown codes are formatted the same way, not rejected.
func Format(code string) string {
	words := strings.Split(code, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

package scaffold

import (
	"strings"
	"unicode"

	qerrors "github.com/feather-rs/cargo-quill/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PluginSuffix is appended to the Pascal-cased project name.
const PluginSuffix = "Plugin"

// PluginIdentifier derives the plugin type name from a project name:
// "my-cool-plugin" → "MyCoolPluginPlugin", "Already_Pascal" → "AlreadyPascalPlugin".
//
// Names without a letter or digit, or whose first word starts with a digit,
// cannot produce a type name and fail with E_INVALID_NAME.
func PluginIdentifier(name string) (string, error) {
	words := splitWords(name)
	if len(words) == 0 {
		return "", qerrors.Newf(qerrors.EInvalidName,
			"project name %q has no letters or digits to derive a type name from", name)
	}
	if first := []rune(words[0])[0]; unicode.IsDigit(first) {
		return "", qerrors.Newf(qerrors.EInvalidName,
			"project name %q starts with a digit; type names must start with a letter", name)
	}
	return PascalCase(words) + PluginSuffix, nil
}

// PascalCase title-cases each word and concatenates them.
func PascalCase(words []string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// splitWords breaks name into words at non-alphanumeric runes, at
// lower-to-upper transitions ("myPlugin") and before the last capital of an
// acronym followed by lowercase ("HTTPServer" → "HTTP", "Server").
func splitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(name)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			switch {
			case unicode.IsLower(prev) || unicode.IsDigit(prev):
				flush()
			case unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

package submission

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ArchiveSuffix marks outer and inner submission archives.
const ArchiveSuffix = ".zip"

var nameSeparators = strings.NewReplacer("-", "", "_", "", " ", "")

// SplitArchiveName derives the cleaned (first name, surname) pair from an inner archive
// name such as "Jöhn-Doe Smith.zip". Only the first '-' separates the two parts.
func SplitArchiveName(name string) (string, string, error) {
	base := strings.TrimSuffix(path.Base(name), ArchiveSuffix)
	first, surname, ok := strings.Cut(base, "-")
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no '-' separator", ErrMalformedName, name)
	}
	return CleanName(first), CleanName(surname), nil
}

// CleanName removes hyphens, underscores and spaces, trims the result and transliterates
// it to ASCII by dropping everything NFKD decomposition leaves outside the ASCII range.
func CleanName(name string) string {
	stripped := strings.TrimSpace(nameSeparators.Replace(name))
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, stripped)
	if err != nil {
		return stripped
	}
	return ascii
}

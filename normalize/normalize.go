// Package normalize converts heterogeneous external representations of
// names, emails, dates, and monetary amounts into the single canonical
// form the repositories store. Malformed input is rejected here, before
// any statement is issued against the database.
package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"invoicedb/models"
)

var (
	emailRE = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
	nameRE  = regexp.MustCompile(`^[A-Za-z]([A-Za-z' -]*[A-Za-z])?$`)
)

// Name trims the input, collapses internal whitespace to single spaces, and
// title-cases each word. Only letters, spaces, apostrophes, and hyphens are
// accepted, and the result must start and end with a letter.
func Name(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", fmt.Errorf("%w: name cannot be empty", models.ErrInvalidFormat)
	}
	name = titleCase(name)
	if !nameRE.MatchString(name) {
		return "", fmt.Errorf("%w: name may contain only letters, spaces, apostrophes, and hyphens", models.ErrInvalidFormat)
	}
	return name, nil
}

// Email trims and lowercases the input and checks it against a conservative
// email shape: allowed local-part characters, one @, a dotted domain with a
// top-level segment of at least two letters.
func Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", fmt.Errorf("%w: email cannot be empty", models.ErrInvalidFormat)
	}
	if !emailRE.MatchString(email) {
		return "", fmt.Errorf("%w: invalid email %q", models.ErrInvalidFormat, email)
	}
	return email, nil
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest. A letter counts as a word start when it follows a space, apostrophe,
// or hyphen, so "o'brien" becomes "O'Brien" and "jean-luc" becomes "Jean-Luc".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '\'' || r == '-':
			startOfWord = true
			b.WriteRune(r)
		case startOfWord:
			b.WriteRune(upper(r))
			startOfWord = false
		default:
			b.WriteRune(lower(r))
		}
	}
	return b.String()
}

func upper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r - 'A' + 'a'
	}
	return r
}

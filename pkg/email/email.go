package email

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize trims surrounding whitespace and lowercases the address so lockout
// and attempt keys cannot be sidestepped by changing case.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Mask keeps the first character of the local part and the full domain:
// "ada@example.com" -> "a***@example.com".
func Mask(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	_, size := utf8.DecodeRuneInString(email)
	return email[:size] + "***" + email[at:]
}

// DeriveNameFromEmail guesses a first and last name from the local part, used
// for mail greetings.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "Guest", "Guest"
	}

	first := capitalize(parts[0])
	last := "Guest"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

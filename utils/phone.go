package utils

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	phoneStripper = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "", "-", "", "(", "", ")", "")
	e164Pattern   = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
)

// countryHints maps the Persian country names stored on listings to ISO codes.
var countryHints = map[string]string{
	"آمریکا":   "US",
	"کانادا":   "CA",
	"انگلستان": "GB",
	"آلمان":    "DE",
	"فرانسه":   "FR",
	"استرالیا": "AU",
	"سوئد":     "SE",
	"هلند":     "NL",
	"ترکیه":    "TR",
	"امارات":   "AE",
	"اتریش":    "AT",
	"دانمارک":  "DK",
	"نروژ":     "NO",
	"بلژیک":    "BE",
	"ایتالیا":  "IT",
	"اسپانیا":  "ES",
	"سوئیس":    "CH",
	"نیوزیلند": "NZ",
	"ژاپن":     "JP",
	"مالزی":    "MY",
}

// NormalizePhone strips whitespace, dashes and parentheses.
func NormalizePhone(phone string) string {
	return phoneStripper.Replace(phone)
}

// MaskPhone hides everything but the last four characters.
func MaskPhone(phone string) string {
	normalized := NormalizePhone(phone)
	if len(normalized) <= 4 {
		return normalized
	}
	return strings.Repeat("*", len(normalized)-4) + normalized[len(normalized)-4:]
}

func IsValidE164(phone string) bool {
	return e164Pattern.MatchString(phone)
}

// ToE164 converts phone to E.164 using countryHint (ISO-3166 alpha-2) for
// national numbers. The second return value is false when the number cannot
// be parsed into a valid phone number.
func ToE164(phone, countryHint string) (string, bool) {
	normalized := NormalizePhone(phone)
	if IsValidE164(normalized) {
		return normalized, true
	}
	if normalized == "" {
		return "", false
	}

	num, err := phonenumbers.Parse(phone, strings.ToUpper(countryHint))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	formatted := phonenumbers.Format(num, phonenumbers.E164)
	if !IsValidE164(formatted) {
		return "", false
	}
	return formatted, true
}

// englishCountryHints covers listings whose country was typed in English.
var englishCountryHints = map[string]string{
	"usa":            "US",
	"united states":  "US",
	"canada":         "CA",
	"united kingdom": "GB",
	"uk":             "GB",
	"england":        "GB",
	"germany":        "DE",
	"france":         "FR",
	"australia":      "AU",
	"sweden":         "SE",
	"netherlands":    "NL",
	"turkey":         "TR",
}

// CountryHint returns the ISO code for a Persian or English country name, or
// "". Two-letter codes pass through.
func CountryHint(country string) string {
	country = strings.TrimSpace(country)
	if code, ok := countryHints[country]; ok {
		return code
	}
	lower := strings.ToLower(country)
	if code, ok := englishCountryHints[lower]; ok {
		return code
	}
	if len(lower) == 2 && lower[0] >= 'a' && lower[0] <= 'z' && lower[1] >= 'a' && lower[1] <= 'z' {
		return strings.ToUpper(lower)
	}
	return ""
}

package validator

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultCountryCode is the phone prefix accepted by IsValidPhone.
const DefaultCountryCode = "998"

const (
	MinReferralLimit = 1
	MaxReferralLimit = 10
	MinPasswordLen   = 6
	MinNameLen       = 2
	MaxNameLen       = 100
)

var defaultPhone = PhoneMatcher(DefaultCountryCode)

// PhoneMatcher returns a predicate accepting exactly "+<countryCode>" followed by nine digits.
func PhoneMatcher(countryCode string) func(string) bool {
	re := regexp.MustCompile(`^\+` + regexp.QuoteMeta(countryCode) + `\d{9}$`)
	return re.MatchString
}

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "")

// NormalizePhone removes the separators people type, so "+998 (90) 123-45-67"
// becomes "+998901234567". Run it before IsValidPhone or the phone tag.
func NormalizePhone(phone string) string {
	return phoneSeparators.Replace(strings.TrimSpace(phone))
}

// IsValidPhone reports whether s is a canonical phone number, e.g. +998901234567.
func IsValidPhone(s string) bool {
	return defaultPhone(s)
}

func IsValidReferralLimit(n int) bool {
	return n >= MinReferralLimit && n <= MaxReferralLimit
}

func IsValidPassword(s string) bool {
	return utf8.RuneCountInString(s) >= MinPasswordLen
}

func IsValidName(s string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= MinNameLen && n <= MaxNameLen
}

// IsValidAmount reports whether x is a finite positive number.
func IsValidAmount(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x > 0
}

// IsValidMinorAmount is IsValidAmount for amounts already held in whole currency units.
func IsValidMinorAmount(x int64) bool {
	return x > 0
}

func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

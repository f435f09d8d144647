package domain

import "strings"

// MinPhoneDigits is the shortest digit run accepted as a phone match.
const MinPhoneDigits = 7

// NationalPhoneDigits is the length of a number without its country code.
const NationalPhoneDigits = 10

// NormalizePhone strips every non-digit character.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PhonesMatch compares two phone numbers by their trailing digits so that a
// country code on either side is optional. The shorter number must still
// carry the full national number of the longer one, so a bare local number
// never matches a number stored with its area code.
func PhonesMatch(a, b string) bool {
	a, b = NormalizePhone(a), NormalizePhone(b)
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) < min(len(b), NationalPhoneDigits) || len(a) < MinPhoneDigits {
		return false
	}
	return strings.HasSuffix(b, a)
}

// PhoneSuffix returns the last MinPhoneDigits digits, used to narrow storage queries.
func PhoneSuffix(phone string) string {
	digits := NormalizePhone(phone)
	if len(digits) <= MinPhoneDigits {
		return digits
	}
	return digits[len(digits)-MinPhoneDigits:]
}

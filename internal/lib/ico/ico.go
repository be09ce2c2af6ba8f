// Package ico validates Czech company registration numbers (IČO).
package ico

import "unicode"

// IsValid checks an IČO: exactly eight digits with a valid weighted mod-11
// check digit. Shorter historical numbers must be zero-padded by the caller.
func IsValid(number string) bool {
	if len(number) != 8 {
		return false
	}

	sum := 0
	for i, ch := range number {
		if !unicode.IsDigit(ch) {
			return false
		}
		digit := int(ch - '0')
		if i < 7 {
			sum += digit * (8 - i)
		}
	}

	var check int
	switch sum % 11 {
	case 0:
		check = 1
	case 1:
		check = 0
	default:
		check = 11 - sum%11
	}

	return check == int(number[7]-'0')
}

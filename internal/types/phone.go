// README: Phone number format validation (Nigerian mobile).
package types

import "regexp"

var phonePattern = regexp.MustCompile(`^0[789][01]\d{8}$`)

func ValidPhoneNumber(phone string) bool {
	return phonePattern.MatchString(phone)
}

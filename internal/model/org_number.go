package model

import (
	"strings"
	"unicode"
)

// OrgNumberLength is the number of digits in an organization number.
const OrgNumberLength = 9

// OrgNumber is a jurisdiction-issued company identifier made of exactly
// OrgNumberLength ASCII digits.
type OrgNumber string

// String returns the organization number as a plain string.
func (o OrgNumber) String() string {
	return string(o)
}

// ParseOrgNumber strips every non-digit rune from line and returns the
// remaining digits as an OrgNumber if exactly OrgNumberLength are left.
//
// Lines such as "Org: 917 251 770" or "| 917251770 | Acme AS |" therefore
// yield "917251770", while "123-456-78" (8 digits) is rejected.
func ParseOrgNumber(line string) (OrgNumber, bool) {
	var b strings.Builder
	for _, r := range line {
		// unicode.IsDigit would also accept non-ASCII digits
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != OrgNumberLength {
		return "", false
	}
	return OrgNumber(digits), true
}

// IsValid reports whether o consists of exactly OrgNumberLength digits.
func (o OrgNumber) IsValid() bool {
	if len(o) != OrgNumberLength {
		return false
	}
	return strings.IndexFunc(string(o), func(r rune) bool {
		return !unicode.IsDigit(r) || r > unicode.MaxASCII
	}) == -1
}

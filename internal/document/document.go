// Package document validates and formats Brazilian CPF and CNPJ numbers.
// All functions are pure: any input string is accepted, non-digit characters
// are stripped, and invalid input yields false rather than an error.
package document

import (
	"fmt"
	"strings"
)

// Kind identifies which document scheme a value matched.
type Kind string

const (
	KindCPF     Kind = "cpf"
	KindCNPJ    Kind = "cnpj"
	KindUnknown Kind = "unknown"
)

// Digits strips every non-digit character from s.
func Digits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// ValidateCPF reports whether s contains a valid 11-digit CPF.
func ValidateCPF(s string) bool {
	d := Digits(s)
	if len(d) != 11 {
		return false
	}
	if allSame(d) {
		return false
	}

	// First check digit: weights 10..2 over digits[0..8].
	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(d[i]-'0') * (10 - i)
	}
	if checkDigitCPF(sum) != int(d[9]-'0') {
		return false
	}

	// Second check digit: weights 11..2 over digits[0..9].
	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(d[i]-'0') * (11 - i)
	}
	return checkDigitCPF(sum) == int(d[10]-'0')
}

// ValidateCNPJ reports whether s contains a valid 14-digit CNPJ.
func ValidateCNPJ(s string) bool {
	d := Digits(s)
	if len(d) != 14 {
		return false
	}
	if allSame(d) {
		return false
	}

	if checkDigitCNPJ(d[:12]) != int(d[12]-'0') {
		return false
	}
	return checkDigitCNPJ(d[:13]) == int(d[13]-'0')
}

// Validate dispatches on stripped length: 11 digits validate as CPF,
// 14 as CNPJ, anything else is invalid.
func Validate(s string) bool {
	switch len(Digits(s)) {
	case 11:
		return ValidateCPF(s)
	case 14:
		return ValidateCNPJ(s)
	default:
		return false
	}
}

// DetectKind classifies s by stripped length without validating check digits.
func DetectKind(s string) Kind {
	switch len(Digits(s)) {
	case 11:
		return KindCPF
	case 14:
		return KindCNPJ
	default:
		return KindUnknown
	}
}

// FormatCPF renders an 11-digit CPF as NNN.NNN.NNN-NN.
// Input with any other digit count is returned unchanged.
func FormatCPF(s string) string {
	d := Digits(s)
	if len(d) != 11 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s-%s", d[:3], d[3:6], d[6:9], d[9:11])
}

// FormatCNPJ renders a 14-digit CNPJ as NN.NNN.NNN/NNNN-NN.
// Input with any other digit count is returned unchanged.
func FormatCNPJ(s string) string {
	d := Digits(s)
	if len(d) != 14 {
		return s
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s", d[:2], d[2:5], d[5:8], d[8:12], d[12:14])
}

// Format dispatches on stripped length, mirroring Validate.
func Format(s string) string {
	switch len(Digits(s)) {
	case 11:
		return FormatCPF(s)
	case 14:
		return FormatCNPJ(s)
	default:
		return s
	}
}

// Mask returns the input mask matching the document kind. Values up to
// 11 digits get the CPF mask; longer values get the CNPJ mask.
func Mask(s string) string {
	if len(Digits(s)) <= 11 {
		return "999.999.999-99"
	}
	return "99.999.999/9999-99"
}

func allSame(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}

// checkDigitCPF applies the CPF rule: 11 - sum mod 11, collapsed to 0
// when the result would be 10 or 11.
func checkDigitCPF(sum int) int {
	d := 11 - sum%11
	if d >= 10 {
		return 0
	}
	return d
}

// checkDigitCNPJ computes the CNPJ check digit over a digit prefix using
// the cyclic weight sequence 2..9 applied right to left.
func checkDigitCNPJ(prefix string) int {
	sum := 0
	weight := 2
	for i := len(prefix) - 1; i >= 0; i-- {
		sum += int(prefix[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	if sum%11 < 2 {
		return 0
	}
	return 11 - sum%11
}

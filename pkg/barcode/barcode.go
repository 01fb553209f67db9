// Package barcode classifies scanned or typed codes into known symbologies
// and verifies check digits. All functions are pure and safe for concurrent
// use.
package barcode

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

// Symbology names returned in Result.Format.
const (
	FormatEAN13   = "EAN-13"
	FormatEAN8    = "EAN-8"
	FormatUPCA    = "UPC-A"
	FormatCode128 = "Code 128"
	FormatCode39  = "Code 39"
	FormatUnknown = "Unknown"
)

// Result is the outcome of classifying one code. Invalid input is a value,
// not an error: IsValid is false and Format is FormatUnknown when the code
// matches no symbology.
type Result struct {
	Code    string `json:"code"`    // Normalized (trimmed, upper-cased) code.
	Format  string `json:"format"`  // Symbology name or FormatUnknown.
	IsValid bool   `json:"isValid"`
}

// Format defines one symbology: a character-class pattern plus an accepted
// length, either fixed or a range.
type Format struct {
	Name       string
	Pattern    *regexp.Regexp
	MinLength  int
	MaxLength  int  // Equal to MinLength for fixed-length symbologies.
	CheckDigit bool // Whether validity requires a check-digit pass.
}

// Formats is the ordered symbology table. Order is significant: the first
// format whose pattern and length both match wins, so codes matching several
// patterns classify deterministically.
var Formats = []Format{
	{Name: FormatEAN13, Pattern: regexp.MustCompile(`^\d{13}$`), MinLength: 13, MaxLength: 13, CheckDigit: true},
	{Name: FormatEAN8, Pattern: regexp.MustCompile(`^\d{8}$`), MinLength: 8, MaxLength: 8, CheckDigit: true},
	{Name: FormatUPCA, Pattern: regexp.MustCompile(`^\d{12}$`), MinLength: 12, MaxLength: 12, CheckDigit: true},
	{Name: FormatCode128, Pattern: regexp.MustCompile(`^[\x00-\x7F]+$`), MinLength: 1, MaxLength: 48},
	{Name: FormatCode39, Pattern: regexp.MustCompile(`^[A-Z0-9\-. $/+%]+$`), MinLength: 1, MaxLength: 43},
}

// ErrPayloadLength is returned by GenerateCheckDigit for payloads that are
// not exactly 12 digits.
var ErrPayloadLength = errors.New("payload must be exactly 12 digits")

// Validate normalizes raw and tests it against the symbology table.
// Empty or whitespace-only input yields {Format: FormatUnknown, IsValid: false}.
// The check-digit algorithm only gates EAN-13; the other check-digit-bearing
// symbologies classify on pattern and length alone.
func Validate(raw string) Result {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return Result{Code: raw, Format: FormatUnknown, IsValid: false}
	}

	for _, f := range Formats {
		if !f.Pattern.MatchString(code) {
			continue
		}
		if len(code) < f.MinLength || len(code) > f.MaxLength {
			continue
		}
		if f.CheckDigit && f.Name == FormatEAN13 {
			return Result{Code: code, Format: f.Name, IsValid: validEAN13CheckDigit(code)}
		}
		return Result{Code: code, Format: f.Name, IsValid: true}
	}

	return Result{Code: code, Format: FormatUnknown, IsValid: false}
}

// validEAN13CheckDigit verifies the trailing digit of a 13-digit code.
// Digits are weighted alternately x1/x3 from the left; the check digit is
// (10 - (sum mod 10)) mod 10.
func validEAN13CheckDigit(code string) bool {
	if len(code) != 13 {
		return false
	}
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(code[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return check == int(code[12]-'0')
}

// GenerateCheckDigit computes the EAN-13 check digit for a 12-digit payload.
func GenerateCheckDigit(payload string) (int, error) {
	if len(payload) != 12 {
		return 0, ErrPayloadLength
	}
	sum := 0
	for i := 0; i < 12; i++ {
		if payload[i] < '0' || payload[i] > '9' {
			return 0, ErrPayloadLength
		}
		d := int(payload[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	return (10 - sum%10) % 10, nil
}

// Complete appends the computed check digit to a 12-digit payload, yielding
// a valid 13-digit EAN-13 code. Payloads of any other length are returned
// unchanged.
func Complete(payload string) string {
	check, err := GenerateCheckDigit(payload)
	if err != nil {
		return payload
	}
	return fmt.Sprintf("%s%d", payload, check)
}

// FormatForDisplay inserts symbology-appropriate separators. Codes whose
// length does not match the named symbology, and symbologies without a
// display grouping, are returned verbatim.
func FormatForDisplay(code, format string) string {
	switch format {
	case FormatEAN13:
		if len(code) == 13 {
			return fmt.Sprintf("%s %s %s", code[0:1], code[1:7], code[7:13])
		}
	case FormatEAN8:
		if len(code) == 8 {
			return fmt.Sprintf("%s %s", code[0:4], code[4:8])
		}
	case FormatUPCA:
		if len(code) == 12 {
			return fmt.Sprintf("%s %s %s %s", code[0:1], code[1:6], code[6:11], code[11:12])
		}
	}
	return code
}

// GenerateRandom mints a well-formed demo code for the given symbology.
// EAN-13 codes carry a correct check digit; unrecognized formats fall back
// to 13 random digits.
func GenerateRandom(format string) string {
	switch format {
	case FormatEAN13:
		return Complete(randomDigits(12))
	case FormatEAN8:
		return randomDigits(8)
	case FormatUPCA:
		return randomDigits(12)
	default:
		return randomDigits(13)
	}
}

func randomDigits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}

package validation

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UFs is the fixed set of valid region codes: the 26 states plus the
// federal district.
var UFs = map[string]bool{
	"AC": true, "AL": true, "AP": true, "AM": true, "BA": true,
	"CE": true, "DF": true, "ES": true, "GO": true, "MA": true,
	"MT": true, "MS": true, "MG": true, "PA": true, "PB": true,
	"PR": true, "PE": true, "PI": true, "RJ": true, "RN": true,
	"RS": true, "RO": true, "RR": true, "SC": true, "SP": true,
	"SE": true, "TO": true,
}

// IsValidUF reports whether code is one of the 27 region codes.
// Comparison is case-insensitive; canonical codes are uppercase.
func IsValidUF(code string) bool {
	return UFs[strings.ToUpper(code)]
}

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the custom `uf` tag registered
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("uf", func(fl validator.FieldLevel) bool {
		return IsValidUF(fl.Field().String())
	})
	return &Validator{
		validate: v,
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// nameFolder strips combining marks after NFD decomposition, which drops
// accents the way the legacy store's strength-2 collation ignored them.
var nameFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NameKey folds an institution name into the key backing the
// case- and accent-insensitive unique index.
func NameKey(name string) string {
	folded, _, err := transform.String(nameFolder, name)
	if err != nil {
		folded = name
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// SanitizeString trims whitespace and removes control characters
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

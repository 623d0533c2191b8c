package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/go-playground/validator/v10"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()

	_ = v.RegisterValidation("solana_address", validateSolanaAddress)
	_ = v.RegisterValidation("solana_signature", validateSolanaSignature)

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidateVar validates a single value against a tag list
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// FormatValidationError formats validation errors into a user-friendly map
// This prevents leaking internal struct names and provides cleaner error messages
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = ErrMsgInvalidRequestFormat
		return errs
	}

	for _, e := range validationErrors {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = ErrMsgFieldRequired
		case "solana_address":
			errs[field] = ErrMsgFieldInvalidAddress
		case "solana_signature":
			errs[field] = ErrMsgFieldInvalidSignature
		case "max":
			errs[field] = fmt.Sprintf(ErrMsgFieldTooLong, e.Param())
		default:
			errs[field] = ErrMsgFieldInvalid
		}
	}

	return errs
}

// validateSolanaAddress accepts a base58 encoded 32-byte public key.
// Empty values pass so the tag composes with omitempty and required.
func validateSolanaAddress(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}

// validateSolanaSignature accepts a base58 encoded 64-byte signature.
func validateSolanaSignature(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := solana.SignatureFromBase58(s)
	return err == nil
}

// Package validation provides custom validation rules for the application.
package validation

import (
	"net/url"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/modelguard/internal/crypto/domain"
	apperrors "github.com/allisson/modelguard/internal/errors"
	vaultDomain "github.com/allisson/modelguard/internal/vault/domain"
)

var metricNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// kmsSchemes are the keeper drivers registered by the crypto service.
var kmsSchemes = map[string]bool{
	"base64key":     true,
	"hashivault":    true,
	"awskms":        true,
	"gcpkms":        true,
	"azurekeyvault": true,
}

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// KeyAlias validates a master key alias.
var KeyAlias = validation.NewStringRuleWithError(
	func(s string) bool {
		return vaultDomain.ValidateAlias(s) == nil
	},
	validation.NewError(
		"validation_key_alias",
		"must be at most 255 characters of letters, digits, '_', '-' or '.', not starting with '.' or '-'",
	),
)

// Algorithm validates a master key AEAD name.
var Algorithm = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := cryptoDomain.ParseAlgorithm(s)
		return err == nil
	},
	validation.NewError("validation_algorithm", "must be aes-gcm or chacha20-poly1305"),
)

// KMSKeyURI validates that a string is a keeper URI with a supported scheme.
var KMSKeyURI = validation.NewStringRuleWithError(
	func(s string) bool {
		u, err := url.Parse(s)
		if err != nil {
			return false
		}
		return kmsSchemes[u.Scheme]
	},
	validation.NewError(
		"validation_kms_key_uri",
		"must be a base64key://, hashivault://, awskms://, gcpkms:// or azurekeyvault:// URI",
	),
)

// MetricName validates a Prometheus metric name prefix.
var MetricName = validation.NewStringRuleWithError(
	metricNameRegex.MatchString,
	validation.NewError("validation_metric_name", "must start with a letter or '_' and contain only letters, digits and '_'"),
)

package order

import (
	"fmt"
	"regexp"
	"strings"

	"kds/internal/pkg/errs"
)

// ManualPrefix marks external ids allocated by the service instead of the caller.
const ManualPrefix = "MAN"

var externalIDPattern = regexp.MustCompile(`^[A-Z]{3}-\d{3,}$`)

// ExternalID is the human-facing order code: three letters, a hyphen and at
// least three digits (GLO-123, MAN-001, MAN-1000).
type ExternalID struct {
	value string
}

// NewExternalID trims and upper-cases raw before checking its format.
func NewExternalID(raw string) (ExternalID, error) {
	value := NormalizeExternalID(raw)
	if value == "" {
		return ExternalID{}, errs.NewValueIsRequiredError("externalId")
	}
	if !externalIDPattern.MatchString(value) {
		return ExternalID{}, errs.NewValueIsInvalidErrorWithCause(
			"externalId",
			fmt.Errorf("%q must be 3 letters, hyphen, 3 digits", value),
		)
	}
	return ExternalID{value: value}, nil
}

// NewManualExternalID formats an allocated sequence number as MAN-###.
func NewManualExternalID(seq int64) (ExternalID, error) {
	if seq <= 0 {
		return ExternalID{}, errs.NewValueIsInvalidErrorWithCause("sequence", fmt.Errorf("%d is not positive", seq))
	}
	return ExternalID{value: fmt.Sprintf("%s-%03d", ManualPrefix, seq)}, nil
}

// NormalizeExternalID applies the canonical form without validating it.
func NormalizeExternalID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func (e ExternalID) String() string {
	return e.value
}

func (e ExternalID) IsZero() bool {
	return e.value == ""
}

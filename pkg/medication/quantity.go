package medication

import (
	"fmt"

	"MedTrack-Backend/domain"
)

// ValidateQuantities checks the quantity invariant for a full record
// (creation, or an update that touches the pack size). Every violated rule
// is reported, not just the first.
func ValidateQuantities(current, total int) error {
	var violations []string

	if total < 1 {
		violations = append(violations, "total quantity must be at least 1")
	}
	if current < 0 {
		violations = append(violations, "current quantity must not be negative")
	}
	if current > total {
		violations = append(violations, fmt.Sprintf("current quantity %d exceeds total quantity %d", current, total))
	}

	if len(violations) > 0 {
		return domain.NewValidationError(violations...)
	}
	return nil
}

// CheckWithinTotal enforces current <= total against a persisted pack size.
// The violation is a business-rule error rather than a validation error
// because it depends on stored state, not on the input shape alone.
func CheckWithinTotal(current, total int) error {
	if current > total {
		return &domain.BusinessRuleError{
			Rule: fmt.Sprintf("current quantity %d exceeds total quantity %d", current, total),
		}
	}
	return nil
}

package workflow

import "github.com/transmedic-it-sg/tm-case-booking/pkg/serrors"

// Failure taxonomy for transitions and amendments. All are locally
// recoverable: the case is never mutated when one of these is returned.
var (
	ErrUnauthorized            = serrors.NewError("UNAUTHORIZED", "role is not permitted for this transition", "")
	ErrInvalidTransition       = serrors.NewError("INVALID_TRANSITION", "target status is not a legal successor of the current status", "")
	ErrMissingRequiredField    = serrors.NewError("MISSING_REQUIRED_FIELD", "a mandatory field for this status is absent or blank", "")
	ErrAmendmentReasonRequired = serrors.NewError("AMENDMENT_REASON_REQUIRED", "amendment reason must not be empty", "")
	ErrAlreadyAmended          = serrors.NewError("ALREADY_AMENDED", "case has already been amended", "")
	ErrNoChanges               = serrors.NewError("NO_CHANGES", "no field differs from its current value", "")
)

package signup

import "errors"

// Business errors the engine reports to callers. Handlers map these to 4xx
// responses; anything else is an internal failure.
var (
	ErrVolunteerNotFound   = errors.New("volunteer not found")
	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrProgramNotFound     = errors.New("program not found")
	ErrWorkshopNotFound    = errors.New("workshop not found")

	ErrOpportunityFull = errors.New("opportunity is full")
	ErrWorkshopFull    = errors.New("workshop is full")
	ErrAlreadySignedUp = errors.New("already signed up")
	ErrNoneAvailable   = errors.New("no open spots available to sign up for")
	ErrBatchTooLarge   = errors.New("too many workshops in a single request")
	ErrEmailInUse      = errors.New("email already in use by another volunteer")
)

// IsNotFound reports whether err is one of the missing-entity errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrVolunteerNotFound) ||
		errors.Is(err, ErrOpportunityNotFound) ||
		errors.Is(err, ErrProgramNotFound) ||
		errors.Is(err, ErrWorkshopNotFound)
}

// IsUserError reports whether err is a user-actionable business rejection.
func IsUserError(err error) bool {
	return errors.Is(err, ErrOpportunityFull) ||
		errors.Is(err, ErrWorkshopFull) ||
		errors.Is(err, ErrAlreadySignedUp) ||
		errors.Is(err, ErrNoneAvailable) ||
		errors.Is(err, ErrBatchTooLarge) ||
		errors.Is(err, ErrEmailInUse)
}

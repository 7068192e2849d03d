package entitlement

import "net/http"

// Reason is the machine-distinguishable code attached to every denial.
// Callers must surface it as-is; collapsing the codes into one generic
// forbidden response loses information clients depend on.
type Reason string

const (
	ReasonNotFound         Reason = "not_found"
	ReasonInvalidPasscode  Reason = "invalid_passcode"
	ReasonAlreadyMember    Reason = "already_member"
	ReasonNotMember        Reason = "not_member"
	ReasonNotEnrolled      Reason = "not_enrolled"
	ReasonAlreadyEnrolled  Reason = "already_enrolled"
	ReasonAlreadyReviewed  Reason = "already_reviewed"
	ReasonRatingOutOfRange Reason = "rating_out_of_range"
	ReasonPollExpired      Reason = "poll_expired"
)

// Denial is the typed outcome for a rejected read or action. It never wraps
// storage failures; those stay ordinary errors on the caller's side.
type Denial struct {
	Reason  Reason
	Message string
}

func (d *Denial) Error() string {
	return d.Message
}

// Status maps the denial to its transport status code. Not-found keeps the
// same code whether the record is missing or deliberately hidden, so the
// response never leaks existence.
func (d *Denial) Status() int {
	switch d.Reason {
	case ReasonNotFound:
		return http.StatusNotFound
	case ReasonInvalidPasscode:
		return http.StatusUnauthorized
	case ReasonNotMember, ReasonNotEnrolled:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func deny(reason Reason, message string) *Denial {
	return &Denial{Reason: reason, Message: message}
}

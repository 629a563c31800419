package roster

import "errors"

// Sentinel errors returned by transitions and the Manager. Callers should
// compare with errors.Is; store and transport errors are wrapped around them.
var (
	ErrNotFound         = errors.New("meetup not found")
	ErrInactive         = errors.New("meetup has been cancelled")
	ErrNotWaitlisted    = errors.New("player is not on the waitlist")
	ErrMeetupFull       = errors.New("meetup is full")
	ErrCannotRemoveHost = errors.New("host cannot be removed from their own meetup")
	ErrVersionConflict  = errors.New("meetup was modified concurrently")

	ErrInvalidCapacity = errors.New("max players must be at least 1")
	ErrMissingHost     = errors.New("meetup requires a host")
)

// Code returns a short, stable identifier for err, suitable for API
// responses and metric labels. Unknown errors map to "internal".
func Code(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInactive):
		return "inactive"
	case errors.Is(err, ErrNotWaitlisted):
		return "not_waitlisted"
	case errors.Is(err, ErrMeetupFull):
		return "meetup_full"
	case errors.Is(err, ErrCannotRemoveHost):
		return "cannot_remove_host"
	case errors.Is(err, ErrVersionConflict):
		return "version_conflict"
	case errors.Is(err, ErrInvalidCapacity), errors.Is(err, ErrMissingHost):
		return "invalid"
	default:
		return "internal"
	}
}

// Message returns the user-facing text for err. Every roster error has its
// own wording; anything else gets a generic failure message.
func Message(err error) string {
	switch Code(err) {
	case "not_found":
		return "Meetup not found."
	case "inactive":
		return "This meetup has been cancelled."
	case "not_waitlisted":
		return "That player is not on the waitlist."
	case "meetup_full":
		return "This meetup is full."
	case "cannot_remove_host":
		return "The host cannot be removed from their own meetup."
	case "version_conflict":
		return "The meetup changed while saving. Please retry."
	case "invalid":
		return "The meetup details are invalid."
	default:
		return "Something went wrong. Please try again."
	}
}

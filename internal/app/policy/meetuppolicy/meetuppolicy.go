// internal/app/policy/meetuppolicy/meetuppolicy.go
package meetuppolicy

import (
	"net/http"

	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/domain/models"
)

// IsHost reports whether the current request user hosts m.
func IsHost(r *http.Request, m models.Meetup) bool {
	uid := auth.UserID(r)
	return uid != "" && uid == m.HostID
}

// CanJoin reports whether the current request user may ask to join m.
// Any signed-in user can; roster rules (cancelled, already in) are
// enforced by the roster manager, not here.
func CanJoin(r *http.Request, _ models.Meetup) bool {
	return auth.UserID(r) != ""
}

// CanApprove reports whether the current request user may approve
// waitlisted players. Only the host can.
func CanApprove(r *http.Request, m models.Meetup) bool {
	return IsHost(r, m)
}

// CanRemove reports whether the current request user may remove target:
// - the host may remove anyone (removing the host itself is rejected later)
// - a player may remove themself (leave, or withdraw a join request)
func CanRemove(r *http.Request, m models.Meetup, target string) bool {
	uid := auth.UserID(r)
	if uid == "" {
		return false
	}
	return uid == m.HostID || uid == target
}

// CanCancel reports whether the current request user may cancel m.
func CanCancel(r *http.Request, m models.Meetup) bool {
	return IsHost(r, m)
}

// CanViewHistory reports whether the current request user may read the
// roster event history of m.
func CanViewHistory(r *http.Request, m models.Meetup) bool {
	return IsHost(r, m)
}

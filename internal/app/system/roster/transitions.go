package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/courtside/internal/app/system/status"
	"github.com/dalemusser/courtside/internal/domain/models"
)

// Open returns the initial state of a meetup created by m.HostID: active,
// host approved, empty waitlist, version 1. Roster fields already present
// on m are discarded.
func Open(m models.Meetup, now time.Time) (models.Meetup, error) {
	if strings.TrimSpace(m.HostID) == "" {
		return models.Meetup{}, ErrMissingHost
	}
	if m.MaxPlayers < 1 {
		return models.Meetup{}, ErrInvalidCapacity
	}
	m.ApprovedPlayers = []string{m.HostID}
	m.CurrentPlayers = 1
	m.Waitlist = []string{}
	m.Status = status.Active
	m.CancellationReason = ""
	m.Version = 1
	m.CreatedAt = now
	m.UpdatedAt = now
	return m, nil
}

// RequestJoin puts uid on the waitlist. Joining twice, or joining a meetup
// the user already plays in, is a successful no-op (changed == false).
func RequestJoin(m models.Meetup, uid string, now time.Time) (models.Meetup, bool, error) {
	if m.Status != status.Active {
		return m, false, ErrInactive
	}
	if m.IsWaitlisted(uid) || m.IsApproved(uid) {
		return m, false, nil
	}
	next := clone(m)
	next.Waitlist = append(next.Waitlist, uid)
	next.UpdatedAt = now
	return next, true, nil
}

// Approve moves uid from the waitlist to the approved roster. The capacity
// check runs against the same state the move is computed from.
func Approve(m models.Meetup, uid string, now time.Time) (models.Meetup, bool, error) {
	if m.Status != status.Active {
		return m, false, ErrInactive
	}
	if !m.IsWaitlisted(uid) {
		return m, false, ErrNotWaitlisted
	}
	if m.CurrentPlayers+1 > m.MaxPlayers {
		return m, false, ErrMeetupFull
	}
	next := clone(m)
	next.Waitlist = without(next.Waitlist, uid)
	next.ApprovedPlayers = append(next.ApprovedPlayers, uid)
	next.CurrentPlayers = len(next.ApprovedPlayers)
	next.UpdatedAt = now
	return next, true, nil
}

// Remove drops uid from the waitlist and, if approved, from the roster.
// It is allowed on cancelled meetups so hosts can tidy up afterwards.
// Removing someone who is in neither set is a successful no-op.
func Remove(m models.Meetup, uid string, now time.Time) (models.Meetup, bool, error) {
	if uid == m.HostID {
		return m, false, ErrCannotRemoveHost
	}
	waitlisted, approved := m.IsWaitlisted(uid), m.IsApproved(uid)
	if !waitlisted && !approved {
		return m, false, nil
	}
	next := clone(m)
	next.Waitlist = without(next.Waitlist, uid)
	if approved {
		next.ApprovedPlayers = without(next.ApprovedPlayers, uid)
		next.CurrentPlayers = len(next.ApprovedPlayers)
	}
	next.UpdatedAt = now
	return next, true, nil
}

// Cancel marks the meetup cancelled and keeps the roster as a snapshot.
// Cancelling twice is a no-op that keeps the first reason.
func Cancel(m models.Meetup, reason string, now time.Time) (models.Meetup, bool, error) {
	if m.Status == status.Cancelled {
		return m, false, nil
	}
	next := clone(m)
	next.Status = status.Cancelled
	next.CancellationReason = reason
	next.UpdatedAt = now
	return next, true, nil
}

// CheckInvariants verifies the roster invariants on m. The Manager runs it
// on every computed state before writing.
func CheckInvariants(m models.Meetup) error {
	if m.CurrentPlayers != len(m.ApprovedPlayers) {
		return fmt.Errorf("current players %d does not match roster size %d", m.CurrentPlayers, len(m.ApprovedPlayers))
	}
	if m.CurrentPlayers > m.MaxPlayers {
		return fmt.Errorf("current players %d exceeds max players %d", m.CurrentPlayers, m.MaxPlayers)
	}
	if !m.IsApproved(m.HostID) {
		return fmt.Errorf("host %q missing from approved players", m.HostID)
	}
	seen := make(map[string]bool, len(m.ApprovedPlayers))
	for _, uid := range m.ApprovedPlayers {
		if seen[uid] {
			return fmt.Errorf("player %q approved twice", uid)
		}
		seen[uid] = true
	}
	for _, uid := range m.Waitlist {
		if seen[uid] {
			return fmt.Errorf("player %q both approved and waitlisted", uid)
		}
	}
	if !status.Valid(m.Status) {
		return fmt.Errorf("unknown status %q", m.Status)
	}
	return nil
}

// clone copies m so a transition never aliases the caller's slices.
func clone(m models.Meetup) models.Meetup {
	m.ApprovedPlayers = append([]string(nil), m.ApprovedPlayers...)
	m.Waitlist = append([]string{}, m.Waitlist...)
	return m
}

func without(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

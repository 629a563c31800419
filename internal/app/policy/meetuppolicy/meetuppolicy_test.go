package meetuppolicy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/courtside/internal/app/policy/meetuppolicy"
	"github.com/dalemusser/courtside/internal/app/system/auth"
	"github.com/dalemusser/courtside/internal/domain/models"
)

func as(uid string) *http.Request {
	r := httptest.NewRequest("POST", "/", nil)
	if uid == "" {
		return r
	}
	return auth.WithTestUser(r, uid)
}

func TestMeetupPolicy(t *testing.T) {
	m := models.Meetup{HostID: "host", ApprovedPlayers: []string{"host", "a"}}

	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"host approves", meetuppolicy.CanApprove(as("host"), m), true},
		{"player cannot approve", meetuppolicy.CanApprove(as("a"), m), false},
		{"anonymous cannot approve", meetuppolicy.CanApprove(as(""), m), false},

		{"host cancels", meetuppolicy.CanCancel(as("host"), m), true},
		{"player cannot cancel", meetuppolicy.CanCancel(as("a"), m), false},

		{"host removes player", meetuppolicy.CanRemove(as("host"), m, "a"), true},
		{"player removes self", meetuppolicy.CanRemove(as("a"), m, "a"), true},
		{"player cannot remove other", meetuppolicy.CanRemove(as("a"), m, "b"), false},
		{"anonymous cannot remove", meetuppolicy.CanRemove(as(""), m, ""), false},

		{"signed in can join", meetuppolicy.CanJoin(as("c"), m), true},
		{"anonymous cannot join", meetuppolicy.CanJoin(as(""), m), false},

		{"host views history", meetuppolicy.CanViewHistory(as("host"), m), true},
		{"player cannot view history", meetuppolicy.CanViewHistory(as("a"), m), false},
	}

	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

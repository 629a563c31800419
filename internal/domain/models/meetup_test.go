package models

import "testing"

func TestMeetup_OpenSlots(t *testing.T) {
	tests := []struct {
		max, current, want int
	}{
		{6, 1, 5},
		{4, 4, 0},
		{4, 5, 0},
	}
	for _, tt := range tests {
		m := Meetup{MaxPlayers: tt.max, CurrentPlayers: tt.current}
		if got := m.OpenSlots(); got != tt.want {
			t.Errorf("OpenSlots(max=%d, current=%d) = %d, want %d", tt.max, tt.current, got, tt.want)
		}
	}
}

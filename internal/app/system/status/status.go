// Package status holds the lifecycle values stored on meetup documents.
package status

const (
	Active    = "active"
	Cancelled = "cancelled"
)

// Valid reports whether s is a known status value.
func Valid(s string) bool {
	return s == Active || s == Cancelled
}

package enums

import "fmt"

// TestimonyStatus is the moderation state of a submitted testimony.
// Only approved testimonies appear in the public feed.
type TestimonyStatus string

const (
	TestimonyStatusPending  TestimonyStatus = "pending"
	TestimonyStatusApproved TestimonyStatus = "approved"
)

var validTestimonyStatuses = []TestimonyStatus{
	TestimonyStatusPending,
	TestimonyStatusApproved,
}

// String implements fmt.Stringer.
func (s TestimonyStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TestimonyStatus.
func (s TestimonyStatus) IsValid() bool {
	for _, candidate := range validTestimonyStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTestimonyStatus converts raw input into a TestimonyStatus.
func ParseTestimonyStatus(value string) (TestimonyStatus, error) {
	for _, candidate := range validTestimonyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid testimony status %q", value)
}

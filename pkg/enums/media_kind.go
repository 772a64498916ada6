package enums

import "fmt"

// MediaKind distinguishes the upload surfaces the API presigns.
type MediaKind string

const (
	MediaKindProfilePhoto MediaKind = "profile_photo"
	MediaKindSermonAudio  MediaKind = "sermon_audio"
	MediaKindSermonVideo  MediaKind = "sermon_video"
)

var validMediaKinds = []MediaKind{
	MediaKindProfilePhoto,
	MediaKindSermonAudio,
	MediaKindSermonVideo,
}

// String implements fmt.Stringer.
func (k MediaKind) String() string {
	return string(k)
}

// IsValid reports whether the value is a known MediaKind.
func (k MediaKind) IsValid() bool {
	for _, candidate := range validMediaKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseMediaKind converts raw input into a MediaKind.
func ParseMediaKind(value string) (MediaKind, error) {
	for _, candidate := range validMediaKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid media kind %q", value)
}

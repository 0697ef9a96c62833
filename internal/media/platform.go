package media

import (
	"errors"
	"strings"
)

// ErrUnsupportedURL indicates the submitted URL does not belong to
// any platform this server can extract from.
var ErrUnsupportedURL = errors.New("URL does not match any supported platform")

// Platform identifies the source site a media URL belongs to. The
// value doubles as the filename prefix for artifacts downloaded
// from that platform.
type Platform string

const (
	TikTok    Platform = "tiktok"
	Pinterest Platform = "pinterest"
)

var pinterestMarkers = []string{"pinterest.com", "pin.it"}

// ParsePlatform classifies a raw URL by matching it against the
// known domain markers, case-insensitively. Pinterest is detected
// explicitly; any other supported URL is a TikTok post.
func ParsePlatform(rawURL string) (Platform, error) {
	lowered := strings.ToLower(rawURL)
	for _, marker := range pinterestMarkers {
		if strings.Contains(lowered, marker) {
			return Pinterest, nil
		}
	}

	if strings.Contains(lowered, "tiktok.com") {
		return TikTok, nil
	}

	return "", ErrUnsupportedURL
}

func (p Platform) String() string { return string(p) }

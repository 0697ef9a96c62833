package media

import "fmt"

// Quality is a named target resolution ceiling used to select
// between the renditions a platform offers for a post.
type Quality string

const (
	QualityBest Quality = "best"
	Quality1080 Quality = "1080p"
	Quality720  Quality = "720p"
	Quality480  Quality = "480p"
)

var qualityHeights = map[Quality]int{
	Quality1080: 1080,
	Quality720:  720,
	Quality480:  480,
}

// ParseQuality maps the client-provided quality string to a Quality.
// An empty string defaults to 'best'; anything unrecognised is an error.
func ParseQuality(raw string) (Quality, error) {
	switch q := Quality(raw); q {
	case "":
		return QualityBest, nil
	case QualityBest, Quality1080, Quality720, Quality480:
		return q, nil
	default:
		return "", fmt.Errorf("quality '%s' is not recognized", raw)
	}
}

// FormatSelector returns the extractor format-selection rule for this
// quality: the best rendition at or below the target height, falling
// back to the best overall when no rendition fits under the ceiling.
// The 'best' quality applies no ceiling at all.
func (q Quality) FormatSelector() string {
	if height, ok := qualityHeights[q]; ok {
		return fmt.Sprintf("best[height<=%d]/best", height)
	}

	return "best"
}

// OfferedQualities is the fixed tier list advertised to clients for
// every post, irrespective of which resolutions the source actually
// reports. The extractor's ceiling-with-fallback selection makes any
// of these choices safe even when the true maximum is lower.
func OfferedQualities() []Quality {
	return []Quality{Quality1080, Quality720, Quality480}
}

func (q Quality) String() string { return string(q) }

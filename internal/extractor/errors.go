package extractor

import "fmt"

type (
	// DownloadError is the known failure shape: the extractor ran
	// but could not produce metadata or a file (unreachable source,
	// private or removed post, unsupported post type). Detail holds
	// the extractor's own ERROR line for server-side logging; it is
	// never shown to clients.
	DownloadError struct {
		URL    string
		Detail string
	}

	// IntegrityError indicates the extractor reported success but
	// the expected file never materialised on disk.
	IntegrityError struct {
		URL  string
		Path string
	}

	// UnknownExtractorError covers everything unanticipated: the
	// binary could not be spawned, or its output was garbage.
	UnknownExtractorError struct {
		reason string
	}
)

func (err *DownloadError) Error() string {
	if err.Detail == "" {
		return fmt.Sprintf("extraction failed for '%s'", err.URL)
	}

	return fmt.Sprintf("extraction failed for '%s': %s", err.URL, err.Detail)
}

func (err *IntegrityError) Error() string {
	return fmt.Sprintf("extractor reported success for '%s' but no file exists at '%s'", err.URL, err.Path)
}

func (err *UnknownExtractorError) Error() string {
	return fmt.Sprintf("unknown error occurred while running the extractor: %s", err.reason)
}

package downloads

import "github.com/vidgrab/vidgrab/internal/media"

type (
	// InfoRequest is the body for the video-info endpoint.
	InfoRequest struct {
		URL string `json:"url" validate:"required"`
	}

	// DownloadRequest is the body for the download endpoint. Quality
	// is optional and defaults to 'best'.
	DownloadRequest struct {
		URL     string `json:"url" validate:"required"`
		Quality string `json:"quality"`
	}

	InfoResponse struct {
		Success   bool            `json:"success"`
		Title     string          `json:"title"`
		Thumbnail string          `json:"thumbnail"`
		Qualities []media.Quality `json:"qualities"`
	}

	DownloadResponse struct {
		Success     bool   `json:"success"`
		Filename    string `json:"filename"`
		Title       string `json:"title"`
		Quality     string `json:"quality"`
		DownloadURL string `json:"download_url"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)

package downloads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/vidgrab/vidgrab/internal/extractor"
	"github.com/vidgrab/vidgrab/internal/media"
	"github.com/vidgrab/vidgrab/internal/store"
	"github.com/vidgrab/vidgrab/pkg/logger"
)

var log = logger.Get("DownloadsController")

const (
	msgMissingURL         = "Please provide a TikTok or Pinterest URL"
	msgInvalidURL         = "Please provide a valid TikTok or Pinterest URL"
	msgInfoFailed         = "Failed to fetch video information. Please check the URL."
	msgDownloadFailed     = "Failed to download video. The URL might be invalid or the video is private."
	msgDownloadIncomplete = "Failed to download video. Please try again."
	msgUnexpected         = "An unexpected error occurred. Please try again."
)

type (
	// Extractor is the gateway to the external extraction capability.
	Extractor interface {
		Probe(ctx context.Context, url string) (*extractor.MediaInfo, error)
		Fetch(ctx context.Context, url string, quality media.Quality, outputPath string) (string, error)
	}

	// ArtifactStore is the slice of the store this controller needs
	// to allocate names for new downloads and stream them back out.
	ArtifactStore interface {
		Allocate(platform media.Platform) store.Artifact
		Exists(name string) bool
		OpenForRead(name string) (*os.File, error)
	}

	// Controller owns the three endpoints that make up the
	// request-to-file lifecycle: probe a URL for metadata, download
	// a chosen rendition, and retrieve the resulting artifact.
	Controller struct {
		validate  *validator.Validate
		extractor Extractor
		store     ArtifactStore
	}
)

func New(validate *validator.Validate, extractor Extractor, store ArtifactStore) *Controller {
	return &Controller{validate: validate, extractor: extractor, store: store}
}

// SetRoutes accepts the Echo group for the download lifecycle
// endpoints and sets the routes on them.
func (controller *Controller) SetRoutes(eg *echo.Group) {
	eg.POST("/get_video_info", controller.getVideoInfo)
	eg.POST("/download", controller.download)
	eg.GET("/get_file/:filename", controller.getFile)
}

// getVideoInfo validates the submitted URL and probes the source for
// the post's title and thumbnail. The quality tiers in the response
// are the fixed offered set, not the detected renditions.
func (controller *Controller) getVideoInfo(ec echo.Context) error {
	var request InfoRequest
	if err := controller.bindURLRequest(ec, &request, &request.URL); err != nil {
		return ec.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingURL})
	}

	if _, err := media.ParsePlatform(request.URL); err != nil {
		return ec.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidURL})
	}

	info, err := controller.extractor.Probe(ec.Request().Context(), request.URL)
	if err != nil {
		log.Emit(logger.ERROR, "probe of '%s' failed: %s\n", request.URL, err.Error())
		return ec.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInfoFailed})
	}

	return ec.JSON(http.StatusOK, InfoResponse{
		Success:   true,
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
		Qualities: media.OfferedQualities(),
	})
}

// download validates the submitted URL, reserves a unique artifact
// name for its platform and fetches the selected rendition into it,
// answering with a relative retrieval link for the new artifact.
func (controller *Controller) download(ec echo.Context) error {
	var request DownloadRequest
	if err := controller.bindURLRequest(ec, &request, &request.URL); err != nil {
		return ec.JSON(http.StatusBadRequest, ErrorResponse{Error: msgMissingURL})
	}

	platform, err := media.ParsePlatform(request.URL)
	if err != nil {
		return ec.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidURL})
	}

	quality, err := media.ParseQuality(strings.TrimSpace(request.Quality))
	if err != nil {
		// Unrecognised tiers degrade to 'best' rather than rejecting
		// the request outright.
		quality = media.QualityBest
	}

	artifact := controller.store.Allocate(platform)

	// The fetch deliberately outlives the request: a client that
	// disconnects mid-download must not abort the extractor. It
	// leaves an orphan for the retention sweeper instead.
	title, err := controller.extractor.Fetch(context.WithoutCancel(ec.Request().Context()), request.URL, quality, artifact.Path)
	if err != nil {
		return controller.downloadError(ec, request.URL, err)
	}

	return ec.JSON(http.StatusOK, DownloadResponse{
		Success:     true,
		Filename:    artifact.Name,
		Title:       title,
		Quality:     quality.String(),
		DownloadURL: "/get_file/" + artifact.Name,
	})
}

// getFile streams a previously downloaded artifact back to the
// client as an attachment. A name that does not resolve gets a plain
// 404; whether it never existed or was already swept is deliberately
// indistinguishable.
func (controller *Controller) getFile(ec echo.Context) error {
	name := ec.Param("filename")

	file, err := controller.store.OpenForRead(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ec.String(http.StatusNotFound, "File not found or expired")
		}

		log.Emit(logger.ERROR, "failed to open artifact '%s': %s\n", name, err.Error())
		return ec.String(http.StatusInternalServerError, "Error downloading file")
	}
	defer file.Close()

	ec.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="tiktok_video_%s"`, name))
	return ec.Stream(http.StatusOK, "video/mp4", file)
}

// bindURLRequest decodes the JSON body into the request DTO and
// normalises + validates its url field.
func (controller *Controller) bindURLRequest(ec echo.Context, request any, url *string) error {
	if err := ec.Bind(request); err != nil {
		return err
	}

	*url = strings.TrimSpace(*url)
	return controller.validate.Struct(request)
}

// downloadError maps a fetch failure to the anticipated client-facing
// responses. The underlying cause is logged server-side only.
func (controller *Controller) downloadError(ec echo.Context, url string, err error) error {
	log.Emit(logger.ERROR, "download of '%s' failed: %s\n", url, err.Error())

	var downloadErr *extractor.DownloadError
	if errors.As(err, &downloadErr) {
		return ec.JSON(http.StatusBadRequest, ErrorResponse{Error: msgDownloadFailed})
	}

	var integrityErr *extractor.IntegrityError
	if errors.As(err, &integrityErr) {
		return ec.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgDownloadIncomplete})
	}

	return ec.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgUnexpected})
}

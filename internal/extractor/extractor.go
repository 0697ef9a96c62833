package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"

	"github.com/vidgrab/vidgrab/internal/media"
	"github.com/vidgrab/vidgrab/pkg/logger"
)

var log = logger.Get("Extractor")

const defaultTitle = "tiktok_video"

type (
	Config struct {
		// Path to the yt-dlp binary used for all probe and fetch
		// operations. Resolved via PATH when not absolute.
		BinPath string
	}

	// Format is a single rendition the source platform offers for
	// a post. Only the height matters for quality-tier selection.
	Format struct {
		FormatID string `json:"format_id"`
		Ext      string `json:"ext"`
		Height   int    `json:"height"`
	}

	// MediaInfo is the metadata yt-dlp reports for a post without
	// downloading anything.
	MediaInfo struct {
		Title     string   `json:"title"`
		Thumbnail string   `json:"thumbnail"`
		Formats   []Format `json:"formats"`
	}

	// Extractor shells out to yt-dlp, which owns all of the
	// per-platform protocol and format negotiation. This adapter
	// only builds command lines and interprets the results; it
	// holds no state between calls.
	Extractor struct {
		config Config
		run    runner
	}

	// runner executes the extractor binary and returns its stdout
	// and stderr. Swappable so tests never spawn a real process.
	runner func(ctx context.Context, bin string, args ...string) (stdout []byte, stderr []byte, err error)
)

func New(config Config) *Extractor {
	if config.BinPath == "" {
		config.BinPath = "yt-dlp"
	}

	return &Extractor{config: config, run: runCommand}
}

// Probe retrieves metadata for the post at the given URL without
// writing any file. The URL is passed to yt-dlp verbatim; callers
// are expected to have validated the platform already.
func (extractor *Extractor) Probe(ctx context.Context, url string) (*MediaInfo, error) {
	stdout, stderr, err := extractor.run(ctx, extractor.config.BinPath,
		"--dump-single-json", "--no-warnings", "--quiet", url)
	if err != nil {
		return nil, classifyRunFailure(url, stderr, err)
	}

	info, err := parseMediaInfo(stdout)
	if err != nil {
		return nil, err
	}

	return info, nil
}

// Fetch downloads the post at the given URL to outputPath, selecting
// a rendition according to the quality's format rule. The resolved
// title of the post is returned. If yt-dlp reports success but no
// file is present at outputPath afterwards, an *IntegrityError is
// returned rather than a phantom success.
func (extractor *Extractor) Fetch(ctx context.Context, url string, quality media.Quality, outputPath string) (string, error) {
	stdout, stderr, err := extractor.run(ctx, extractor.config.BinPath,
		"--print-json", "--no-warnings", "--quiet", "--no-check-certificate",
		"-f", quality.FormatSelector(),
		"-o", outputPath,
		url)
	if err != nil {
		return "", classifyRunFailure(url, stderr, err)
	}

	title := defaultTitle
	if info, parseErr := parseMediaInfo(stdout); parseErr == nil && info.Title != "" {
		title = info.Title
	}

	if _, statErr := os.Stat(outputPath); statErr != nil {
		log.Emit(logger.ERROR, "fetch of %s reported success but no file exists at %s\n", url, outputPath)
		return "", &IntegrityError{URL: url, Path: outputPath}
	}

	return title, nil
}

func parseMediaInfo(raw []byte) (*MediaInfo, error) {
	var info MediaInfo
	if err := json.Unmarshal(bytes.TrimSpace(raw), &info); err != nil {
		return nil, &UnknownExtractorError{reason: "extractor output could not be unmarshalled: " + err.Error()}
	}

	return &info, nil
}

// classifyRunFailure turns a failed yt-dlp invocation into the typed
// error the handler boundary maps to a response. A non-zero exit
// with a recognisable ERROR line is the known "download failed"
// shape; anything else (spawn failure, signal) is unknown.
func classifyRunFailure(url string, stderr []byte, err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &DownloadError{URL: url, Detail: lastErrorLine(stderr)}
	}

	return &UnknownExtractorError{reason: "failed to invoke extractor: " + err.Error()}
}

func lastErrorLine(stderr []byte) string {
	detail := ""
	for _, line := range bytes.Split(stderr, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("ERROR:")) {
			detail = string(bytes.TrimSpace(line))
		}
	}

	return detail
}

func runCommand(ctx context.Context, bin string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

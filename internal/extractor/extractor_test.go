package extractor

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidgrab/vidgrab/internal/media"
)

const sampleInfoJSON = `{
	"title": "Sample",
	"thumbnail": "http://x/thumb.jpg",
	"formats": [
		{"format_id": "0", "ext": "mp4", "height": 360},
		{"format_id": "1", "ext": "mp4", "height": 720},
		{"format_id": "2", "ext": "mp4", "height": null}
	]
}`

// exitError fabricates the error shape a non-zero yt-dlp exit
// produces, so classification can be exercised without a process.
func exitError(t *testing.T) *exec.ExitError {
	cmd := exec.Command("false")
	err := cmd.Run()

	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	return exitErr
}

func stubRunner(stdout, stderr string, err error, capturedArgs *[]string) runner {
	return func(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
		if capturedArgs != nil {
			*capturedArgs = args
		}
		return []byte(stdout), []byte(stderr), err
	}
}

func Test_Probe_ParsesMetadata(t *testing.T) {
	t.Parallel()

	var args []string
	ex := New(Config{})
	ex.run = stubRunner(sampleInfoJSON, "", nil, &args)

	info, err := ex.Probe(context.Background(), "https://www.tiktok.com/@user/video/123")
	require.Nil(t, err)

	assert.Equal(t, "Sample", info.Title)
	assert.Equal(t, "http://x/thumb.jpg", info.Thumbnail)
	require.Len(t, info.Formats, 3)
	assert.Equal(t, 720, info.Formats[1].Height)
	assert.Equal(t, 0, info.Formats[2].Height)

	assert.Contains(t, args, "--dump-single-json")
	assert.NotContains(t, args, "-o", "probe must never write a file")
}

func Test_Probe_ClassifiesExitFailure(t *testing.T) {
	t.Parallel()

	ex := New(Config{})
	ex.run = stubRunner("", "WARNING: noise\nERROR: Private video.", exitError(t), nil)

	_, err := ex.Probe(context.Background(), "https://www.tiktok.com/@user/video/123")

	var downloadErr *DownloadError
	require.ErrorAs(t, err, &downloadErr)
	assert.Equal(t, "ERROR: Private video.", downloadErr.Detail)
}

func Test_Probe_SpawnFailureIsUnknown(t *testing.T) {
	t.Parallel()

	ex := New(Config{})
	ex.run = stubRunner("", "", errors.New("exec: no such binary"), nil)

	_, err := ex.Probe(context.Background(), "https://pin.it/abc")

	var unknownErr *UnknownExtractorError
	assert.ErrorAs(t, err, &unknownErr)
}

func Test_Probe_GarbageOutputIsUnknown(t *testing.T) {
	t.Parallel()

	ex := New(Config{})
	ex.run = stubRunner("not json", "", nil, nil)

	_, err := ex.Probe(context.Background(), "https://pin.it/abc")

	var unknownErr *UnknownExtractorError
	assert.ErrorAs(t, err, &unknownErr)
}

func Test_Fetch_WritesFileAndResolvesTitle(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "tiktok_cafebabe.mp4")

	var args []string
	ex := New(Config{})
	ex.run = func(_ context.Context, _ string, runArgs ...string) ([]byte, []byte, error) {
		args = runArgs
		require.Nil(t, os.WriteFile(outputPath, []byte("video-bytes"), 0o644))
		return []byte(sampleInfoJSON), nil, nil
	}

	title, err := ex.Fetch(context.Background(), "https://www.tiktok.com/@user/video/123", media.Quality720, outputPath)
	require.Nil(t, err)

	assert.Equal(t, "Sample", title)
	assert.Contains(t, args, "best[height<=720]/best")
	assert.Contains(t, args, outputPath)
}

func Test_Fetch_MissingFileIsIntegrityError(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "tiktok_cafebabe.mp4")

	ex := New(Config{})
	ex.run = stubRunner(sampleInfoJSON, "", nil, nil)

	_, err := ex.Fetch(context.Background(), "https://www.tiktok.com/@user/video/123", media.QualityBest, outputPath)

	var integrityErr *IntegrityError
	assert.ErrorAs(t, err, &integrityErr)
}

func Test_Fetch_FallsBackToDefaultTitle(t *testing.T) {
	t.Parallel()

	outputPath := filepath.Join(t.TempDir(), "pinterest_cafebabe.mp4")

	ex := New(Config{})
	ex.run = func(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
		require.Nil(t, os.WriteFile(outputPath, []byte("video-bytes"), 0o644))
		return []byte(`{"thumbnail": "http://x/t.jpg"}`), nil, nil
	}

	title, err := ex.Fetch(context.Background(), "https://pin.it/abc", media.QualityBest, outputPath)
	require.Nil(t, err)
	assert.Equal(t, "tiktok_video", title)
}

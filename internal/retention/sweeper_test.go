package retention_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidgrab/vidgrab/internal/retention"
	"github.com/vidgrab/vidgrab/internal/store"
	"gotest.tools/v3/fs"
)

const ttl = time.Hour

// faultyStore wraps recorded entries and fails deletion of the
// configured names, for exercising per-file fault tolerance.
type faultyStore struct {
	entries   []store.Entry
	failNames map[string]bool
	deleted   []string
}

func (s *faultyStore) ListAll() ([]store.Entry, error) { return s.entries, nil }

func (s *faultyStore) Delete(name string) error {
	if s.failNames[name] {
		return errors.New("simulated permission denied")
	}

	s.deleted = append(s.deleted, name)
	return nil
}

func Test_SweepOnce_DeletesOnlyExpiredArtifacts(t *testing.T) {
	t.Parallel()

	now := time.Now()
	dir := fs.NewDir(t, "retention-test",
		fs.WithFile("tiktok_00000001.mp4", "x", fs.WithTimestamps(now.Add(-2*time.Hour), now.Add(-2*time.Hour))),
		fs.WithFile("tiktok_00000002.mp4", "x", fs.WithTimestamps(now.Add(-30*time.Minute), now.Add(-30*time.Minute))),
		fs.WithFile("pinterest_00000003.mp4", "x", fs.WithTimestamps(now.Add(-61*time.Minute), now.Add(-61*time.Minute))),
		fs.WithFile("pinterest_00000004.mp4", "x", fs.WithTimestamps(now.Add(-59*time.Minute), now.Add(-59*time.Minute))),
	)
	defer dir.Remove()

	artifactStore, err := store.New(dir.Path())
	require.Nil(t, err)

	sweeper := retention.New(retention.Config{TTL: ttl, Interval: time.Hour}, artifactStore)
	sweeper.SweepOnce(now)

	assert.False(t, artifactStore.Exists("tiktok_00000001.mp4"), "2h old artifact should be reclaimed")
	assert.False(t, artifactStore.Exists("pinterest_00000003.mp4"), "61m old artifact should be reclaimed")
	assert.True(t, artifactStore.Exists("tiktok_00000002.mp4"), "30m old artifact should survive")
	assert.True(t, artifactStore.Exists("pinterest_00000004.mp4"), "59m old artifact should survive")
}

func Test_SweepOnce_ExactTTLAgeSurvives(t *testing.T) {
	t.Parallel()

	now := time.Now()
	onBoundary := now.Add(-ttl)
	dir := fs.NewDir(t, "retention-boundary",
		fs.WithFile("tiktok_00000001.mp4", "x", fs.WithTimestamps(onBoundary, onBoundary)),
	)
	defer dir.Remove()

	artifactStore, err := store.New(dir.Path())
	require.Nil(t, err)

	sweeper := retention.New(retention.Config{TTL: ttl, Interval: time.Hour}, artifactStore)
	sweeper.SweepOnce(now)

	// Eligibility is age strictly greater than TTL.
	assert.True(t, artifactStore.Exists("tiktok_00000001.mp4"))
}

func Test_SweepOnce_ContinuesPastDeletionFault(t *testing.T) {
	t.Parallel()

	now := time.Now()
	expired := now.Add(-2 * time.Hour)
	stubStore := &faultyStore{
		entries: []store.Entry{
			{Name: "tiktok_00000001.mp4", ModTime: expired},
			{Name: "tiktok_00000002.mp4", ModTime: expired},
			{Name: "tiktok_00000003.mp4", ModTime: expired},
		},
		failNames: map[string]bool{"tiktok_00000002.mp4": true},
	}

	sweeper := retention.New(retention.Config{TTL: ttl, Interval: time.Hour}, stubStore)
	sweeper.SweepOnce(now)

	assert.Equal(t, []string{"tiktok_00000001.mp4", "tiktok_00000003.mp4"}, stubStore.deleted)
}

func Test_Run_StopsOnContextCancellation(t *testing.T) {
	t.Parallel()

	sweeper := retention.New(retention.Config{TTL: ttl, Interval: time.Hour}, &faultyStore{})

	wg := sync.WaitGroup{}
	wg.Add(1)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer wg.Done()
		assert.Nil(t, sweeper.Run(ctx))
	}()

	cancel()
	wg.Wait()
}

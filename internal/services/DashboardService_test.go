package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpd/internal/models"
	"cpd/internal/testutil"
)

func storeWithProfile(t *testing.T, p models.Profile) *testutil.MockStore {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	return &testutil.MockStore{Data: map[string][]byte{models.ProfileStorageKey: data}}
}

func newTestBoard(t *testing.T, store *testutil.MockStore, fetcher *testutil.MockFetcher) *DashboardService {
	t.Helper()
	ds := newDashboardService(NewProfileService(store, &testutil.MockLogger{}), fetcher, &testutil.MockLogger{})
	t.Cleanup(ds.Close)
	return ds
}

func entryOf(t *testing.T, ds *DashboardService, p models.Platform) models.PlatformFetchState {
	t.Helper()
	for _, e := range ds.Snapshot() {
		if e.Name == p {
			return e
		}
	}
	t.Fatalf("no entry for %s", p)
	return models.PlatformFetchState{}
}

func TestDashboard_MountWithoutProfile(t *testing.T) {
	fetcher := &testutil.MockFetcher{}
	ds := newTestBoard(t, &testutil.MockStore{}, fetcher)

	onboarded, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()

	assert.False(t, onboarded)
	assert.Empty(t, ds.Snapshot())
	assert.Equal(t, 0, fetcher.CallCount())

	_, err = ds.Refresh(models.LeetCode)
	assert.ErrorIs(t, err, ErrUnknownPlatform)
}

func TestDashboard_RefreshBeforeMount(t *testing.T) {
	ds := newTestBoard(t, &testutil.MockStore{}, &testutil.MockFetcher{})

	_, err := ds.Refresh(models.LeetCode)
	assert.ErrorIs(t, err, ErrNotMounted)
	assert.ErrorIs(t, ds.RefreshAsync(models.LeetCode), ErrNotMounted)
}

func TestDashboard_MountMaterialisesFixedOrder(t *testing.T) {
	fetcher := &testutil.MockFetcher{}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", GFG: "bob"}), fetcher)

	onboarded, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()

	assert.True(t, onboarded)
	entries := ds.Snapshot()
	require.Len(t, entries, 5)
	for i, p := range models.Platforms {
		assert.Equal(t, p, entries[i].Name)
	}
	assert.Equal(t, "bob", entries[1].Username)
	assert.Equal(t, models.StatusSuccess, entries[1].Status)
	assert.Equal(t, models.StatusIdle, entries[0].Status, "entries without a username are not fetched")
}

func TestDashboard_MissingUsernameFailsWithoutNetwork(t *testing.T) {
	fetcher := &testutil.MockFetcher{}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A"}), fetcher)
	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()

	entry, err := ds.Refresh(models.HackerRank)
	require.NoError(t, err)

	assert.Equal(t, models.StatusError, entry.Status)
	require.NotNil(t, entry.Error)
	assert.Equal(t, models.ErrMissingUsername, entry.Error.Kind)
	assert.Equal(t, "Please enter a username for this platform", entry.Error.Message)
	assert.Nil(t, entry.Stats)
	assert.Equal(t, 0, fetcher.CallCount())
}

func TestDashboard_UnsupportedPlatformIsExplicit(t *testing.T) {
	fetcher := &testutil.MockFetcher{Supported: map[models.Platform]bool{models.LeetCode: true, models.GFG: true}}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "alice", CodeChef: "carol"}), fetcher)
	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()

	assert.Equal(t, models.StatusUnsupported, entryOf(t, ds, models.CodeChef).Status)
	assert.Equal(t, 1, fetcher.CallCount())
	assert.Equal(t, models.LeetCode, fetcher.Calls[0].Platform)
}

func TestDashboard_SuccessStoresStatsVerbatim(t *testing.T) {
	ranking := 15243
	want := &models.PlatformStats{TotalSolved: 325, EasySolved: 150, MediumSolved: 125, HardSolved: 50, Ranking: &ranking, ProfileURL: "https://leetcode.com/u/alice"}
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		return want, nil
	}}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "alice"}), fetcher)

	start := time.Now()
	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()

	entry := entryOf(t, ds, models.LeetCode)
	assert.Equal(t, models.StatusSuccess, entry.Status)
	assert.Equal(t, want, entry.Stats)
	assert.Nil(t, entry.Error)
	require.NotNil(t, entry.LastUpdated)
	assert.False(t, entry.LastUpdated.Before(start))
}

func TestDashboard_TimeoutClearsStats(t *testing.T) {
	var calls int32
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return &models.PlatformStats{TotalSolved: 3}, nil
		}
		return nil, models.NewFetchError(models.ErrTimeout, context.DeadlineExceeded)
	}}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", GFG: "bob"}), fetcher)
	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()
	require.Equal(t, models.StatusSuccess, entryOf(t, ds, models.GFG).Status)

	entry, err := ds.Refresh(models.GFG)
	require.NoError(t, err)

	assert.Equal(t, models.StatusError, entry.Status)
	assert.Equal(t, "Request timed out", entry.Error.Message)
	assert.Nil(t, entry.Stats)
}

func TestDashboard_PlainErrorsBecomeUnknown(t *testing.T) {
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		return nil, assert.AnError
	}}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "alice"}), fetcher)
	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()

	entry := entryOf(t, ds, models.LeetCode)
	assert.Equal(t, models.ErrUnknown, entry.Error.Kind)
	assert.Equal(t, "Failed to fetch data", entry.Error.Message)
}

func TestDashboard_LateResponseOfSupersededRequestIsDropped(t *testing.T) {
	release := []chan struct{}{make(chan struct{}), make(chan struct{})}
	var n int32
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		i := atomic.AddInt32(&n, 1) - 1
		<-release[i]
		return &models.PlatformStats{TotalSolved: int(i) + 1}, nil
	}}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "alice"}), fetcher)

	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return fetcher.CallCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, ds.IsFetching())
	assert.Equal(t, models.StatusLoading, entryOf(t, ds, models.LeetCode).Status)

	require.NoError(t, ds.RefreshAsync(models.LeetCode))
	require.Eventually(t, func() bool { return fetcher.CallCount() == 2 }, time.Second, 5*time.Millisecond)

	close(release[1])
	require.Eventually(t, func() bool {
		return entryOf(t, ds, models.LeetCode).Status == models.StatusSuccess
	}, time.Second, 5*time.Millisecond)

	close(release[0])
	ds.Wait()

	entry := entryOf(t, ds, models.LeetCode)
	assert.Equal(t, models.StatusSuccess, entry.Status)
	assert.Equal(t, 2, entry.Stats.TotalSolved)
	assert.False(t, ds.IsFetching())
}

func TestDashboard_FetchAllRunsConcurrently(t *testing.T) {
	const delay = 150 * time.Millisecond
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		time.Sleep(delay)
		return &models.PlatformStats{TotalSolved: 1}, nil
	}}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "a", HackerRank: "b", CodeChef: "c"}), fetcher)

	start := time.Now()
	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()
	elapsed := time.Since(start)

	assert.Equal(t, 3, fetcher.CallCount())
	assert.Equal(t, 3, fetcher.Peak())
	assert.Less(t, elapsed, 2*delay, "calls must overlap")
	for _, e := range ds.Snapshot() {
		if e.Username == "" {
			assert.Equal(t, models.StatusIdle, e.Status)
		} else {
			assert.Equal(t, models.StatusSuccess, e.Status)
		}
	}
}

func TestDashboard_RemountDiscardsPreviousGeneration(t *testing.T) {
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		if u == "old" {
			<-ctx.Done()
			return nil, models.NewFetchError(models.ErrUnknown, ctx.Err())
		}
		return &models.PlatformStats{TotalSolved: 9}, nil
	}}
	store := storeWithProfile(t, models.Profile{Name: "A", LeetCode: "old"})
	ds := newTestBoard(t, store, fetcher)

	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return fetcher.CallCount() == 1 }, time.Second, 5*time.Millisecond)

	ps := NewProfileService(store, &testutil.MockLogger{})
	require.NoError(t, ps.Save(context.Background(), &models.Profile{Name: "A", LeetCode: "new"}))
	_, err = ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()

	entry := entryOf(t, ds, models.LeetCode)
	assert.Equal(t, "new", entry.Username)
	assert.Equal(t, models.StatusSuccess, entry.Status)
	assert.Equal(t, 9, entry.Stats.TotalSolved)
}

func TestDashboard_RefreshSucceededSkipsErrors(t *testing.T) {
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		if p == models.GFG {
			return nil, models.NewFetchError(models.ErrNotFound, nil)
		}
		return &models.PlatformStats{TotalSolved: 1}, nil
	}}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "a", GFG: "b"}), fetcher)
	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()
	require.Equal(t, 2, fetcher.CallCount())

	ds.RefreshSucceeded()

	assert.Equal(t, 3, fetcher.CallCount())
	assert.Equal(t, models.LeetCode, fetcher.Calls[2].Platform)
}

func TestDashboard_EnsureMountedOnlyOnce(t *testing.T) {
	fetcher := &testutil.MockFetcher{}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "a"}), fetcher)

	for i := 0; i < 3; i++ {
		onboarded, err := ds.EnsureMounted(context.Background())
		require.NoError(t, err)
		assert.True(t, onboarded)
	}
	ds.Wait()
	assert.Equal(t, 1, fetcher.CallCount())
}

func TestDashboard_CloseAbortsInFlight(t *testing.T) {
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	ds := newDashboardService(NewProfileService(storeWithProfile(t, models.Profile{Name: "A", LeetCode: "a"}), &testutil.MockLogger{}), fetcher, &testutil.MockLogger{})
	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	require.Eventually(t, func() bool { return fetcher.CallCount() == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan struct{})
	go func() {
		ds.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}

func TestDashboard_ConcurrentEnsureMountedMountsOnce(t *testing.T) {
	fetcher := &testutil.MockFetcher{}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "a", GFG: "b"}), fetcher)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			onboarded, err := ds.EnsureMounted(context.Background())
			assert.NoError(t, err)
			assert.True(t, onboarded)
		}()
	}
	wg.Wait()
	ds.Wait()

	assert.Equal(t, 2, fetcher.CallCount())
}

// gatedProfiles hands out profile versions in call order. The first Load
// blocks until release is closed.
type gatedProfiles struct {
	release chan struct{}
	loads   atomic.Int32
}

func (g *gatedProfiles) Load(context.Context) (*models.Profile, error) {
	n := g.loads.Add(1)
	if n == 1 {
		<-g.release
		return &models.Profile{Name: "old", LeetCode: "old"}, nil
	}
	return &models.Profile{Name: "new", LeetCode: "new"}, nil
}

func (g *gatedProfiles) Save(context.Context, *models.Profile) error { return nil }

func TestDashboard_MountsInstallInCallOrder(t *testing.T) {
	profiles := &gatedProfiles{release: make(chan struct{})}
	ds := newDashboardService(profiles, &testutil.MockFetcher{}, &testutil.MockLogger{})
	t.Cleanup(ds.Close)

	first := make(chan struct{})
	go func() {
		defer close(first)
		_, err := ds.Mount(context.Background())
		assert.NoError(t, err)
	}()
	require.Eventually(t, func() bool { return profiles.loads.Load() == 1 }, time.Second, time.Millisecond)

	second := make(chan struct{})
	go func() {
		defer close(second)
		_, err := ds.Mount(context.Background())
		assert.NoError(t, err)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), profiles.loads.Load(), "second mount must wait for the first")

	close(profiles.release)
	<-first
	<-second
	ds.Wait()

	assert.Equal(t, "new", entryOf(t, ds, models.LeetCode).Username)
}

func TestDashboard_RetrySkipsResponseCache(t *testing.T) {
	var bypassed []bool
	var mu sync.Mutex
	fetcher := &testutil.MockFetcher{FetchFn: func(ctx context.Context, p models.Platform, u string) (*models.PlatformStats, error) {
		mu.Lock()
		bypassed = append(bypassed, cacheBypassed(ctx))
		mu.Unlock()
		return &models.PlatformStats{TotalSolved: 1}, nil
	}}
	ds := newTestBoard(t, storeWithProfile(t, models.Profile{Name: "A", LeetCode: "a"}), fetcher)

	_, err := ds.Mount(context.Background())
	require.NoError(t, err)
	ds.Wait()

	_, err = ds.Refresh(models.LeetCode)
	require.NoError(t, err)
	ds.RefreshSucceeded()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true, true}, bypassed)
}

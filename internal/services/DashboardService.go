package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"cpd/internal/models"
	"cpd/internal/providers"
)

var (
	ErrUnknownPlatform = errors.New("platform is not on the dashboard")
	ErrNotMounted      = errors.New("dashboard not mounted")
)

type DashboardServiceInterface interface {
	// Mount loads the stored profile, replaces the entry list and starts a
	// background fetch of every entry with a username. It reports whether a
	// profile exists.
	Mount(ctx context.Context) (bool, error)
	// EnsureMounted mounts on first use only.
	EnsureMounted(ctx context.Context) (bool, error)
	Snapshot() []models.PlatformFetchState
	Onboarded() bool
	// Refresh fetches one platform past the response cache and blocks until
	// it settles.
	Refresh(platform models.Platform) (models.PlatformFetchState, error)
	RefreshAsync(platform models.Platform) error
	// FetchAll fetches every entry with a username and blocks until all settle.
	FetchAll()
	// RefreshSucceeded re-fetches entries currently in success.
	RefreshSucceeded()
	IsFetching() bool
	// Wait blocks until background fetches started by Mount and RefreshAsync
	// have settled.
	Wait()
	Close()
}

type DashboardService struct {
	// mountMu serialises Mount so profile loads install in call order.
	mountMu sync.Mutex

	mu        sync.Mutex
	entries   []models.PlatformFetchState
	mounted   bool
	onboarded bool
	seq       uint64

	root       context.Context
	rootCancel context.CancelFunc
	gen        context.Context
	genCancel  context.CancelFunc

	active   *atomic.Int32
	inflight sync.WaitGroup

	profiles ProfileServiceInterface
	fetcher  StatsFetcherInterface
	logger   providers.Logger
	now      func() time.Time
}

func NewDashboardService(profiles ProfileServiceInterface, fetcher StatsFetcherInterface, logger providers.Logger) DashboardServiceInterface {
	return newDashboardService(profiles, fetcher, logger)
}

func newDashboardService(profiles ProfileServiceInterface, fetcher StatsFetcherInterface, logger providers.Logger) *DashboardService {
	root, cancel := context.WithCancel(context.Background())
	gen, genCancel := context.WithCancel(root)
	return &DashboardService{
		root:       root,
		rootCancel: cancel,
		gen:        gen,
		genCancel:  genCancel,
		active:     atomic.NewInt32(0),
		profiles:   profiles,
		fetcher:    fetcher,
		logger:     logger,
		now:        time.Now,
	}
}

func (ds *DashboardService) Mount(ctx context.Context) (bool, error) {
	ds.mountMu.Lock()
	defer ds.mountMu.Unlock()
	return ds.mount(ctx)
}

// mount must be called with mountMu held.
func (ds *DashboardService) mount(ctx context.Context) (bool, error) {
	profile, err := ds.profiles.Load(ctx)
	if err != nil && !errors.Is(err, ErrNoProfile) {
		return false, err
	}

	ds.mu.Lock()
	ds.genCancel()
	ds.gen, ds.genCancel = context.WithCancel(ds.root)

	// Fresh entries start at the current sequence so that nothing issued for
	// the previous list can settle on them.
	ds.seq++
	ds.entries = nil
	ds.onboarded = profile != nil
	if profile != nil {
		ds.entries = models.NewEntries(profile.Subscriptions())
		for i := range ds.entries {
			ds.entries[i].Seq = ds.seq
		}
	}
	ds.mounted = true
	onboarded := ds.onboarded
	ds.mu.Unlock()

	if !onboarded {
		ds.logger.Infof(providers.TypeApp, "Dashboard mounted without a profile")
		return false, nil
	}

	ds.logger.Infof(providers.TypeApp, "Dashboard mounted for %s", profile.Name)
	ds.inflight.Add(1)
	go func() {
		defer ds.inflight.Done()
		ds.FetchAll()
	}()
	return true, nil
}

func (ds *DashboardService) EnsureMounted(ctx context.Context) (bool, error) {
	ds.mountMu.Lock()
	defer ds.mountMu.Unlock()

	ds.mu.Lock()
	mounted, onboarded := ds.mounted, ds.onboarded
	ds.mu.Unlock()
	if mounted {
		return onboarded, nil
	}
	return ds.mount(ctx)
}

func (ds *DashboardService) Snapshot() []models.PlatformFetchState {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	out := make([]models.PlatformFetchState, len(ds.entries))
	copy(out, ds.entries)
	return out
}

func (ds *DashboardService) Onboarded() bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.onboarded
}

func (ds *DashboardService) Refresh(platform models.Platform) (models.PlatformFetchState, error) {
	return ds.fetchOne(platform, true)
}

func (ds *DashboardService) RefreshAsync(platform models.Platform) error {
	ds.mu.Lock()
	mounted := ds.mounted
	_, ok := ds.find(platform)
	ds.mu.Unlock()
	if !mounted {
		return ErrNotMounted
	}
	if !ok {
		return ErrUnknownPlatform
	}

	ds.inflight.Add(1)
	go func() {
		defer ds.inflight.Done()
		if _, err := ds.fetchOne(platform, true); err != nil {
			ds.logger.Warnf(providers.TypeFetch, "Refresh of %s failed: %s", platform, err)
		}
	}()
	return nil
}

func (ds *DashboardService) FetchAll() {
	ds.fetchWhere(false, func(e models.PlatformFetchState) bool {
		return e.Username != ""
	})
}

func (ds *DashboardService) RefreshSucceeded() {
	ds.fetchWhere(true, func(e models.PlatformFetchState) bool {
		return e.Status == models.StatusSuccess
	})
}

func (ds *DashboardService) IsFetching() bool {
	return ds.active.Load() > 0
}

func (ds *DashboardService) Wait() {
	ds.inflight.Wait()
}

// Close aborts everything in flight and waits for background work to exit.
func (ds *DashboardService) Close() {
	ds.rootCancel()
	ds.Wait()
}

func (ds *DashboardService) fetchWhere(fresh bool, match func(models.PlatformFetchState) bool) {
	ds.mu.Lock()
	var targets []models.Platform
	for _, e := range ds.entries {
		if match(e) {
			targets = append(targets, e.Name)
		}
	}
	ds.mu.Unlock()

	if len(targets) == 0 {
		return
	}

	ds.active.Inc()
	defer ds.active.Dec()

	start := time.Now()
	var g errgroup.Group
	for _, platform := range targets {
		g.Go(func() error {
			_, err := ds.fetchOne(platform, fresh)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		ds.logger.Warnf(providers.TypeFetch, "Fetch round ended with error: %s", err)
	}
	ds.logger.Debugf(providers.TypeFetch, "Fetched %d platforms in %s", len(targets), time.Since(start))
}

// fetchOne issues a new request for platform and applies its outcome. The
// returned state is the entry after the outcome was applied or discarded.
// A fresh fetch skips the response cache.
func (ds *DashboardService) fetchOne(platform models.Platform, fresh bool) (models.PlatformFetchState, error) {
	ds.mu.Lock()
	if !ds.mounted {
		ds.mu.Unlock()
		return models.PlatformFetchState{}, ErrNotMounted
	}
	entry, ok := ds.find(platform)
	if !ok {
		ds.mu.Unlock()
		return models.PlatformFetchState{}, ErrUnknownPlatform
	}

	gen := ds.gen
	ds.seq++
	seq := ds.seq

	if entry.Username == "" {
		ds.apply(models.FetchEvent{
			Kind:     models.EventFailed,
			Platform: platform,
			Seq:      seq,
			Err:      models.NewFetchError(models.ErrMissingUsername, nil),
			At:       ds.now(),
		})
		entry, _ = ds.find(platform)
		ds.mu.Unlock()
		return entry, nil
	}

	if !ds.fetcher.Supports(platform) {
		ds.apply(models.FetchEvent{Kind: models.EventUnsupported, Platform: platform, Seq: seq, At: ds.now()})
		entry, _ = ds.find(platform)
		ds.mu.Unlock()
		return entry, nil
	}

	ds.apply(models.FetchEvent{Kind: models.EventStarted, Platform: platform, Seq: seq, At: ds.now()})
	ds.mu.Unlock()

	ctx := gen
	if fresh {
		ctx = BypassCache(ctx)
	}
	stats, err := ds.fetcher.Fetch(ctx, platform, entry.Username)

	ev := models.FetchEvent{Platform: platform, Seq: seq, At: ds.now()}
	if err != nil {
		ev.Kind = models.EventFailed
		ev.Err = asFetchError(err)
	} else {
		ev.Kind = models.EventSucceeded
		ev.Stats = stats
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	if gen.Err() != nil {
		ds.logger.Debugf(providers.TypeFetch, "Dropped %s result #%d from a closed generation", platform, seq)
	} else if !ds.apply(ev) {
		ds.logger.Debugf(providers.TypeFetch, "Dropped stale %s result #%d", platform, seq)
	}
	entry, _ = ds.find(platform)
	return entry, nil
}

// apply must be called with mu held.
func (ds *DashboardService) apply(ev models.FetchEvent) bool {
	next, applied := models.ReduceEntries(ds.entries, ev)
	if applied {
		ds.entries = next
	}
	return applied
}

// find must be called with mu held.
func (ds *DashboardService) find(platform models.Platform) (models.PlatformFetchState, bool) {
	for _, e := range ds.entries {
		if e.Name == platform {
			return e, true
		}
	}
	return models.PlatformFetchState{}, false
}

func asFetchError(err error) *models.FetchError {
	var fe *models.FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return models.NewFetchError(models.ErrUnknown, err)
}

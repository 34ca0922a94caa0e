package library

import (
	"context"
	"fmt"
	"slices"
	"strings"
	stdsync "sync"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	synchub "mangatheque/internal/sync"
	"mangatheque/internal/storage"
	"mangatheque/pkg/models"
)

const volumeIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// Broadcaster receives a change event after every state change.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// VolumeCountSyncer refreshes a series' published-volume count in the
// background. SyncAsync must not block.
type VolumeCountSyncer interface {
	SyncAsync(seriesID, title string)
}

// Store owns the collection. Every mutation builds a new slice, never
// touching the previous snapshot, then writes it to the slot before
// returning.
type Store struct {
	mu     stdsync.Mutex
	slot   storage.Slot
	series []models.Series
	nav    models.Navigation

	hub    Broadcaster
	syncer VolumeCountSyncer
	log    *zap.Logger

	newSeriesID func() string
	newVolumeID func() (string, error)
	pickColor   func() string
}

type Option func(*Store)

func WithBroadcaster(b Broadcaster) Option {
	return func(s *Store) { s.hub = b }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithColorPicker overrides the random palette pick.
func WithColorPicker(f func() string) Option {
	return func(s *Store) { s.pickColor = f }
}

// Open loads the collection from slot. A missing key yields an empty store.
func Open(ctx context.Context, slot storage.Slot, opts ...Option) (*Store, error) {
	list, err := slot.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Store{
		slot:        slot,
		series:      list,
		nav:         models.Navigation{View: models.ViewHome},
		log:         zap.NewNop(),
		newSeriesID: uuid.NewString,
		newVolumeID: func() (string, error) { return gonanoid.Generate(volumeIDAlphabet, 9) },
		pickColor:   randomColor,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log.Info("collection loaded", zap.Int("series", len(list)))
	return s, nil
}

// SetSyncer wires the volume-count syncer. It is set after construction
// because the syncer writes back through the store.
func (s *Store) SetSyncer(syncer VolumeCountSyncer) {
	s.mu.Lock()
	s.syncer = syncer
	s.mu.Unlock()
}

// List returns a deep copy of every series in insertion order.
func (s *Store) List() []models.Series {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneAll(s.series)
}

// Snapshot returns the collection and the navigation state read together.
func (s *Store) Snapshot() ([]models.Series, models.Navigation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.CloneAll(s.series), s.nav
}

// Get returns a copy of one series.
func (s *Store) Get(id string) (models.Series, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return models.Series{}, false
	}
	return s.series[idx].Clone(), true
}

func (s *Store) AddSeries(ctx context.Context, d models.SeriesDraft) (models.Series, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return models.Series{}, ErrInvalidTitle
	}

	s.mu.Lock()
	created := models.Series{
		ID:          s.newSeriesID(),
		Title:       title,
		Author:      strings.TrimSpace(d.Author),
		Nationality: strings.TrimSpace(d.Nationality),
		ImageURL:    d.ImageURL,
		Color:       s.pickColor(),
		Volumes:     []models.Volume{},
	}
	next := make([]models.Series, 0, len(s.series)+1)
	next = append(next, s.series...)
	next = append(next, created)
	err := s.commit(ctx, next)
	syncer := s.syncer
	s.mu.Unlock()

	s.emit(synchub.EventSeriesAdd, created.ID, "")
	if syncer != nil {
		syncer.SyncAsync(created.ID, created.Title)
	}
	return created.Clone(), err
}

// DeleteSeries removes a series and all its volumes once c confirms. A nil
// Confirmer or a declined prompt leaves everything untouched and returns
// false.
func (s *Store) DeleteSeries(ctx context.Context, id string, c Confirmer) (bool, error) {
	existing, ok := s.Get(id)
	if !ok {
		return false, ErrSeriesNotFound
	}
	// asked without the lock held; the prompt may block on a human
	if c == nil || !c.Confirm(deletePrompt(existing.Title)) {
		return false, nil
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, ErrSeriesNotFound
	}
	next := make([]models.Series, 0, len(s.series)-1)
	next = append(next, s.series[:idx]...)
	next = append(next, s.series[idx+1:]...)

	navReset := s.nav.ActiveSeriesID == id
	if navReset {
		s.nav = models.Navigation{View: models.ViewHome}
	}
	err := s.commit(ctx, next)
	s.mu.Unlock()

	s.emit(synchub.EventSeriesDelete, id, "")
	if navReset {
		s.emit(synchub.EventNavChange, "", "")
	}
	return true, err
}

func (s *Store) UpdateSeriesImage(ctx context.Context, id, url string) error {
	changed, err := s.updateSeries(ctx, id, func(sr *models.Series) bool {
		if sr.ImageURL == url {
			return false
		}
		sr.ImageURL = url
		return true
	})
	if changed {
		s.emit(synchub.EventSeriesImage, id, "")
	}
	return err
}

// AddVolume inserts volume number into a series, keeping volumes sorted. It
// reports false when that number is already recorded.
func (s *Store) AddVolume(ctx context.Context, seriesID string, number int) (bool, error) {
	if number < 1 {
		return false, ErrInvalidVolumeNumber
	}
	volID, err := s.newVolumeID()
	if err != nil {
		return false, fmt.Errorf("generate volume id: %w", err)
	}

	changed, err := s.updateSeries(ctx, seriesID, func(sr *models.Series) bool {
		for _, v := range sr.Volumes {
			if v.Number == number {
				return false
			}
		}
		sr.Volumes = append(sr.Volumes, models.Volume{ID: volID, Number: number})
		sortVolumes(sr.Volumes)
		return true
	})
	if changed {
		s.emit(synchub.EventVolumeAdd, seriesID, volID)
	}
	return changed, err
}

func (s *Store) ToggleVolumeOwned(ctx context.Context, seriesID, volumeID string) (bool, error) {
	changed, err := s.updateSeries(ctx, seriesID, func(sr *models.Series) bool {
		for i := range sr.Volumes {
			if sr.Volumes[i].ID == volumeID {
				sr.Volumes[i].Owned = !sr.Volumes[i].Owned
				return true
			}
		}
		return false
	})
	if changed {
		s.emit(synchub.EventVolumeToggle, seriesID, volumeID)
	}
	return changed, err
}

func (s *Store) DeleteVolume(ctx context.Context, seriesID, volumeID string) (bool, error) {
	changed, err := s.updateSeries(ctx, seriesID, func(sr *models.Series) bool {
		idx := slices.IndexFunc(sr.Volumes, func(v models.Volume) bool { return v.ID == volumeID })
		if idx < 0 {
			return false
		}
		sr.Volumes = slices.Delete(sr.Volumes, idx, idx+1)
		return true
	})
	if changed {
		s.emit(synchub.EventVolumeDelete, seriesID, volumeID)
	}
	return changed, err
}

// SetVolumeCount records the published-volume count. Non-positive counts
// never replace what is stored; counts above models.MaxVolumeCount are
// rejected.
func (s *Store) SetVolumeCount(ctx context.Context, seriesID string, count int) (bool, error) {
	if count < 1 {
		return false, nil
	}
	if count > models.MaxVolumeCount {
		return false, fmt.Errorf("%w: %d", ErrVolumeCountRange, count)
	}
	changed, err := s.updateSeries(ctx, seriesID, func(sr *models.Series) bool {
		if sr.TotalAvailableInFrance != nil && *sr.TotalAvailableInFrance == count {
			return false
		}
		n := count
		sr.TotalAvailableInFrance = &n
		return true
	})
	if changed {
		s.emit(synchub.EventSeriesCount, seriesID, "")
	}
	return changed, err
}

// Replace swaps in a whole collection, e.g. from an import. Volume lists are
// re-sorted; missing ids and colors are filled in.
func (s *Store) Replace(ctx context.Context, list []models.Series) error {
	next := models.CloneAll(list)
	seen := make(map[string]struct{}, len(next))
	volumeIDs := make(map[string]struct{})
	for i := range next {
		sr := &next[i]
		if sr.ID == "" {
			sr.ID = s.newSeriesID()
		}
		if _, dup := seen[sr.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSeriesID, sr.ID)
		}
		seen[sr.ID] = struct{}{}
		if strings.TrimSpace(sr.Title) == "" {
			return fmt.Errorf("series %s: %w", sr.ID, ErrInvalidTitle)
		}
		if sr.Color == "" {
			sr.Color = s.pickColor()
		}
		if sr.TotalAvailableInFrance != nil {
			switch n := *sr.TotalAvailableInFrance; {
			case n < 1:
				sr.TotalAvailableInFrance = nil
			case n > models.MaxVolumeCount:
				return fmt.Errorf("series %s: %w: %d", sr.ID, ErrVolumeCountRange, n)
			}
		}

		numbers := make(map[int]struct{}, len(sr.Volumes))
		for j := range sr.Volumes {
			v := &sr.Volumes[j]
			if v.Number < 1 {
				return fmt.Errorf("series %s: %w", sr.ID, ErrInvalidVolumeNumber)
			}
			if _, dup := numbers[v.Number]; dup {
				return fmt.Errorf("series %s: duplicate volume number %d", sr.ID, v.Number)
			}
			numbers[v.Number] = struct{}{}
			if v.ID == "" {
				id, err := s.newVolumeID()
				if err != nil {
					return fmt.Errorf("generate volume id: %w", err)
				}
				v.ID = id
			}
			if _, dup := volumeIDs[v.ID]; dup {
				return fmt.Errorf("series %s: %w: %s", sr.ID, ErrDuplicateVolumeID, v.ID)
			}
			volumeIDs[v.ID] = struct{}{}
		}
		sortVolumes(sr.Volumes)
	}

	s.mu.Lock()
	navReset := false
	if s.nav.ActiveSeriesID != "" {
		if _, ok := seen[s.nav.ActiveSeriesID]; !ok {
			s.nav = models.Navigation{View: models.ViewHome}
			navReset = true
		}
	}
	err := s.commit(ctx, next)
	s.mu.Unlock()

	s.emit(synchub.EventCollectionReplace, "", "")
	if navReset {
		s.emit(synchub.EventNavChange, "", "")
	}
	return err
}

// updateSeries applies fn to a copy of the series with the given id. fn
// returns false when nothing changed; nothing is persisted then.
func (s *Store) updateSeries(ctx context.Context, id string, fn func(*models.Series) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false, ErrSeriesNotFound
	}
	item := s.series[idx].Clone()
	if !fn(&item) {
		return false, nil
	}

	next := make([]models.Series, len(s.series))
	copy(next, s.series)
	next[idx] = item
	return true, s.commit(ctx, next)
}

// commit installs next and persists it. Caller holds s.mu. The in-memory
// snapshot is kept even when the write fails. Cancelling ctx does not stop
// the write once the state has changed.
func (s *Store) commit(ctx context.Context, next []models.Series) error {
	s.series = next
	if err := s.slot.Save(context.WithoutCancel(ctx), next); err != nil {
		s.log.Error("persist collection failed", zap.Error(err))
		return fmt.Errorf("persist collection: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.series, func(sr models.Series) bool { return sr.ID == id })
}

func (s *Store) emit(typ, seriesID, volumeID string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastJSON(synchub.NewEvent(typ, seriesID, volumeID))
}

func sortVolumes(vs []models.Volume) {
	slices.SortStableFunc(vs, func(a, b models.Volume) int { return a.Number - b.Number })
}

package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	stdsync "sync"

	"go.uber.org/zap"

	synchub "mangatheque/internal/sync"
	"mangatheque/pkg/models"
)

// CountSetter stores a fetched published-volume count.
type CountSetter interface {
	SetVolumeCount(ctx context.Context, seriesID string, count int) (bool, error)
}

type Broadcaster interface {
	BroadcastJSON(v any)
}

// Syncer fetches the number of volumes released in France for a series and
// writes it back. Syncs for the same series are not ordered; the last one to
// finish wins.
type Syncer struct {
	gen   Generator
	store CountSetter
	hub   Broadcaster
	log   *zap.Logger

	mu       stdsync.Mutex
	inflight map[string]int
	wg       stdsync.WaitGroup
}

func NewSyncer(gen Generator, store CountSetter, hub Broadcaster, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{
		gen:      gen,
		store:    store,
		hub:      hub,
		log:      log.Named("sync"),
		inflight: make(map[string]int),
	}
}

func syncPrompt(title string) string {
	return fmt.Sprintf("Recherche web pour le manga \"%s\":\n"+
		"Donne-moi le nombre EXACT de tomes actuellement commercialisés/sortis en France (format papier).\n"+
		"Réponds uniquement au format JSON: { \"totalVolumesFrance\": number }", title)
}

// Sync runs one lookup and blocks until it is applied or dropped.
func (s *Syncer) Sync(ctx context.Context, seriesID, title string) {
	s.begin(seriesID)
	s.run(ctx, seriesID, title)
}

// SyncAsync starts a lookup on its own goroutine. The series reports as
// syncing as soon as SyncAsync returns.
func (s *Syncer) SyncAsync(seriesID, title string) {
	s.begin(seriesID)
	go s.run(context.Background(), seriesID, title)
}

// IsSyncing reports whether any lookup for seriesID is still running.
func (s *Syncer) IsSyncing(seriesID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[seriesID] > 0
}

// InFlight returns the ids of series being synced, sorted.
func (s *Syncer) InFlight() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.inflight))
	for id := range s.inflight {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	slices.Sort(ids)
	return ids
}

// Wait blocks until every started lookup has finished.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

func (s *Syncer) begin(seriesID string) {
	s.wg.Add(1)
	s.mu.Lock()
	s.inflight[seriesID]++
	first := s.inflight[seriesID] == 1
	s.mu.Unlock()
	if first {
		s.emit(synchub.EventSyncStart, seriesID)
	}
}

func (s *Syncer) end(seriesID string) {
	s.mu.Lock()
	s.inflight[seriesID]--
	last := s.inflight[seriesID] <= 0
	if last {
		delete(s.inflight, seriesID)
	}
	s.mu.Unlock()
	if last {
		s.emit(synchub.EventSyncDone, seriesID)
	}
	s.wg.Done()
}

func (s *Syncer) run(ctx context.Context, seriesID, title string) {
	defer s.end(seriesID)

	log := s.log.With(zap.String("series_id", seriesID), zap.String("title", title))
	if s.gen == nil {
		log.Debug("no generator configured, skipping sync")
		return
	}

	text, err := s.gen.GenerateJSON(ctx, syncPrompt(title))
	if err != nil {
		log.Warn("volume count request failed", zap.Error(err))
		return
	}
	count, err := parseVolumeCount(text)
	if err != nil {
		log.Warn("volume count response unusable", zap.Error(err), zap.String("response", text))
		return
	}
	if count < 1 {
		log.Info("volume count not positive, keeping stored value", zap.Int("count", count))
		return
	}

	changed, err := s.store.SetVolumeCount(ctx, seriesID, count)
	if err != nil {
		log.Warn("store volume count", zap.Error(err))
		return
	}
	log.Info("volume count synced", zap.Int("count", count), zap.Bool("changed", changed))
}

func (s *Syncer) emit(typ, seriesID string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastJSON(synchub.NewEvent(typ, seriesID, ""))
}

var errNoCount = errors.New("totalVolumesFrance missing")

// parseVolumeCount reads totalVolumesFrance as a JSON number or a numeric
// string. Fractions are truncated; counts above models.MaxVolumeCount are
// rejected.
func parseVolumeCount(text string) (int, error) {
	var body struct {
		Total json.RawMessage `json:"totalVolumesFrance"`
	}
	if err := json.Unmarshal([]byte(stripFence(text)), &body); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	raw := strings.TrimSpace(string(body.Total))
	if raw == "" || raw == "null" {
		return 0, errNoCount
	}

	var f float64
	if strings.HasPrefix(raw, `"`) {
		var str string
		if err := json.Unmarshal(body.Total, &str); err != nil {
			return 0, fmt.Errorf("decode count: %w", err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
		if err != nil {
			return 0, fmt.Errorf("count %q: %w", str, err)
		}
		f = v
	} else if err := json.Unmarshal(body.Total, &f); err != nil {
		return 0, fmt.Errorf("decode count: %w", err)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f > models.MaxVolumeCount {
		return 0, fmt.Errorf("count %v out of range", f)
	}
	return int(math.Trunc(f)), nil
}

package library

import (
	synchub "mangatheque/internal/sync"
	"mangatheque/pkg/models"
)

func (s *Store) Navigation() models.Navigation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nav
}

func (s *Store) GoHome() {
	s.setNav(models.Navigation{View: models.ViewHome})
}

func (s *Store) OpenReport() {
	s.setNav(models.Navigation{View: models.ViewReport})
}

// OpenSeries shows the detail view of an existing series.
func (s *Store) OpenSeries(id string) error {
	s.mu.Lock()
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return ErrSeriesNotFound
	}
	s.nav = models.Navigation{View: models.ViewDetail, ActiveSeriesID: id}
	s.mu.Unlock()

	s.emit(synchub.EventNavChange, id, "")
	return nil
}

func (s *Store) setNav(n models.Navigation) {
	s.mu.Lock()
	s.nav = n
	s.mu.Unlock()
	s.emit(synchub.EventNavChange, "", "")
}

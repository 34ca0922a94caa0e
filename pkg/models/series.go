package models

// Volume is one numbered physical book of a series.
type Volume struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Owned  bool   `json:"owned"`
}

// Series is a tracked manga title with the volumes recorded for it.
//
// The JSON shape is the persisted one; keep keys stable, the stored blob has
// no schema version beyond its key name.
type Series struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Nationality string   `json:"nationality"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Color       string   `json:"color"`
	Volumes     []Volume `json:"volumes"`

	// TotalAvailableInFrance is nil when the published count is unknown.
	TotalAvailableInFrance *int   `json:"totalAvailableInFrance,omitempty"`
	CharacterName          string `json:"characterName,omitempty"`
}

// OwnedCount returns how many volumes are marked owned.
func (s Series) OwnedCount() int {
	n := 0
	for _, v := range s.Volumes {
		if v.Owned {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers never share the volumes slice.
func (s Series) Clone() Series {
	if s.Volumes != nil {
		s.Volumes = append([]Volume(nil), s.Volumes...)
	} else {
		s.Volumes = []Volume{}
	}
	if s.TotalAvailableInFrance != nil {
		n := *s.TotalAvailableInFrance
		s.TotalAvailableInFrance = &n
	}
	return s
}

// CloneAll deep-copies a collection snapshot.
func CloneAll(list []Series) []Series {
	out := make([]Series, len(list))
	for i, s := range list {
		out[i] = s.Clone()
	}
	return out
}

// DefaultNationality pre-fills the add-series form.
const DefaultNationality = "Japonais"

// MaxVolumeCount bounds TotalAvailableInFrance. The longest running series
// are a few hundred volumes.
const MaxVolumeCount = 1000

// SeriesDraft is the unsaved add-series form.
type SeriesDraft struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Nationality string `json:"nationality"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// NewDraft returns an empty form with the default nationality.
func NewDraft(title string) SeriesDraft {
	return SeriesDraft{Title: title, Nationality: DefaultNationality}
}

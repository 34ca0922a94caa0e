package sync

import "time"

const (
	EventSeriesAdd         = "series.add"
	EventSeriesDelete      = "series.delete"
	EventSeriesImage       = "series.image"
	EventSeriesCount       = "series.count"
	EventVolumeAdd         = "volume.add"
	EventVolumeToggle      = "volume.toggle"
	EventVolumeDelete      = "volume.delete"
	EventCollectionReplace = "collection.replace"
	EventNavChange         = "nav.change"
	EventSyncStart         = "sync.start"
	EventSyncDone          = "sync.done"
)

// CollectionEvent tells views which part of the collection to re-render.
type CollectionEvent struct {
	Type     string    `json:"type"`
	SeriesID string    `json:"seriesId,omitempty"`
	VolumeID string    `json:"volumeId,omitempty"`
	At       time.Time `json:"at"`
}

func NewEvent(typ, seriesID, volumeID string) CollectionEvent {
	return CollectionEvent{Type: typ, SeriesID: seriesID, VolumeID: volumeID, At: time.Now().UTC()}
}

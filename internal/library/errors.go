package library

import "errors"

var (
	ErrSeriesNotFound      = errors.New("series not found")
	ErrInvalidTitle        = errors.New("title must not be empty")
	ErrInvalidVolumeNumber = errors.New("volume number must be a positive integer")
	ErrDuplicateSeriesID   = errors.New("duplicate series id")
	ErrDuplicateVolumeID   = errors.New("duplicate volume id")
	ErrVolumeCountRange    = errors.New("volume count out of range")
)

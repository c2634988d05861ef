// Package models defines the gallery data model shared by the store,
// services and transport layers.
package models

import "time"

// Entry is a single gallery item.
type Entry struct {
	// ID is assigned at creation and never changes.
	ID   string `json:"id"`
	Name string `json:"name"`

	// ImageKey/ThumbnailKey are asset store keys; the URLs are derived
	// from them when the entry is created.
	ImageKey     string `json:"imageKey"`
	ImageURL     string `json:"imageUrl"`
	ThumbnailKey string `json:"thumbnailKey"`
	ThumbnailURL string `json:"thumbnailUrl"`

	// Order is the display position; higher is more prominent.
	Order int `json:"order"`

	DateCreated *time.Time `json:"dateCreated,omitempty"`
}

// Clone returns a deep copy of e.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.DateCreated != nil {
		d := *e.DateCreated
		c.DateCreated = &d
	}
	return &c
}

// Snapshot is a consistent read of the whole entry store together with the
// store revision it was taken at.
type Snapshot struct {
	Revision int64
	Entries  []*Entry
}

// Find returns the entry with the given id, or nil.
func (s *Snapshot) Find(id string) *Entry {
	for _, e := range s.Entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// UploadTargets are the presigned PUT URLs handed out for a new entry.
type UploadTargets struct {
	ImageURL     string `json:"imageUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// DeleteResult reports both phases of an entry deletion.
type DeleteResult struct {
	MetadataDeleted bool `json:"metadataDeleted"`
	AssetsDeleted   bool `json:"assetsDeleted"`
}

// ManifestItem is one element of the published data.json manifest.
type ManifestItem struct {
	N string `json:"n"`
	I string `json:"i"`
	O int    `json:"o"`
}

package fileio

import "github.com/penwyp/claudestat/models"

// Deduplicator tracks record identities seen in the current file and across the whole load.
// It is not safe for concurrent use; the loader threads one instance through its merge phase.
type Deduplicator struct {
	file   map[string]struct{}
	global map[string]struct{}
}

// NewDeduplicator returns a deduplicator with empty file and global sets
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{
		file:   make(map[string]struct{}),
		global: make(map[string]struct{}),
	}
}

// ResetFile clears the per-file set; call it before scanning each file
func (d *Deduplicator) ResetFile() {
	clear(d.file)
}

// Seen reports whether the (messageID, requestID) pair was already recorded,
// and records it if not. Pairs with either half missing are never seen.
func (d *Deduplicator) Seen(messageID, requestID string) bool {
	key := models.DedupKey(messageID, requestID)
	if key == "" {
		return false
	}

	if _, ok := d.file[key]; ok {
		return true
	}
	if _, ok := d.global[key]; ok {
		return true
	}

	d.file[key] = struct{}{}
	d.global[key] = struct{}{}
	return false
}

// Len returns the number of distinct identities seen during the load
func (d *Deduplicator) Len() int {
	return len(d.global)
}

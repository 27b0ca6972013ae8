package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"sync/atomic"
	"time"

	"github.com/opsdeck/incident-intel/internal/incident"
)

// Snapshot is one published view of the incident set. Snapshots are immutable
// after publication; readers must not mutate the slice.
type Snapshot struct {
	Incidents   []incident.Incident
	Fingerprint string
	FetchedAt   time.Time
}

// Cache holds the most recent snapshot. Single writer (the poller), many
// readers; publication swaps an atomic pointer so readers never observe a
// partial write.
type Cache struct {
	current atomic.Pointer[Snapshot]
}

func New() *Cache {
	return &Cache{}
}

// Load returns the latest snapshot, or nil if the poller has never published.
func (c *Cache) Load() *Snapshot {
	return c.current.Load()
}

// Incidents returns the cached set, empty (never nil) before first publication.
func (c *Cache) Incidents() []incident.Incident {
	snap := c.current.Load()
	if snap == nil {
		return []incident.Incident{}
	}
	return snap.Incidents
}

// Len reports the cached incident count.
func (c *Cache) Len() int {
	snap := c.current.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Incidents)
}

// Publish atomically replaces the current snapshot. Called only by the poller;
// readers always see either the old or the new snapshot, never a mix.
func (c *Cache) Publish(s *Snapshot) {
	c.current.Store(s)
}

// Fingerprint computes a content hash over the incident set that is invariant
// under element order: records are serialized individually, sorted, and fed to
// sha256. Two sets fingerprint equal iff their semantic content is equal.
func Fingerprint(incidents []incident.Incident) string {
	serialized := make([]string, 0, len(incidents))
	for _, in := range incidents {
		data, err := json.Marshal(in)
		if err != nil {
			continue
		}
		serialized = append(serialized, string(data))
	}
	sort.Strings(serialized)

	h := sha256.New()
	for _, s := range serialized {
		h.Write([]byte(s))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

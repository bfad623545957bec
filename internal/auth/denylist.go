// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultDenylistCleanupInterval is the interval at which expired
// revocation entries are swept.
const DefaultDenylistCleanupInterval = 5 * time.Minute

const denylistShardCount = 32

// RevocationStore records token ids that must fail validation before
// their natural expiry. Entries become irrelevant once the token would
// have expired anyway, so implementations may drop them after that.
type RevocationStore interface {
	// Revoke marks a token id as revoked until the given expiry.
	Revoke(tokenID string, expiresAt time.Time)

	// IsRevoked reports whether a token id is currently revoked.
	IsRevoked(tokenID string) bool
}

type denylistShard struct {
	mu      sync.Mutex
	entries map[string]time.Time // token id -> natural expiry
}

// Denylist is an in-memory sharded RevocationStore. Revoking an
// already-revoked id is a no-op, which makes logout idempotent.
//
// A background goroutine sweeps entries whose tokens have expired.
// Call Close to stop it.
type Denylist struct {
	shards [denylistShardCount]*denylistShard

	stopChan chan struct{}
	wg       sync.WaitGroup

	sizeGauge prometheus.Gauge
}

// NewDenylist creates a denylist and starts its cleanup goroutine.
// A non-positive cleanupInterval falls back to the default.
func NewDenylist(cleanupInterval time.Duration) *Denylist {
	return newDenylist(cleanupInterval, nil)
}

// NewDenylistWithRegistry additionally registers a size gauge with the
// provided Prometheus registry.
func NewDenylistWithRegistry(cleanupInterval time.Duration, reg prometheus.Registerer) *Denylist {
	return newDenylist(cleanupInterval, reg)
}

func newDenylist(cleanupInterval time.Duration, reg prometheus.Registerer) *Denylist {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultDenylistCleanupInterval
	}

	d := &Denylist{stopChan: make(chan struct{})}
	for i := range d.shards {
		d.shards[i] = &denylistShard{entries: make(map[string]time.Time)}
	}

	if reg != nil {
		d.sizeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "authcore_revoked_tokens",
			Help: "Current number of revoked token ids held in the denylist",
		})
		reg.MustRegister(d.sizeGauge)
	}

	d.wg.Add(1)
	go d.cleanupLoop(cleanupInterval)

	return d
}

func (d *Denylist) shardFor(tokenID string) *denylistShard {
	h := fnv.New32a()
	h.Write([]byte(tokenID)) //nolint:errcheck // fnv.Write never fails
	return d.shards[h.Sum32()%denylistShardCount]
}

// Revoke marks a token id as revoked until its natural expiry. Ids
// that are already expired are not stored.
func (d *Denylist) Revoke(tokenID string, expiresAt time.Time) {
	if tokenID == "" || !expiresAt.After(time.Now()) {
		return
	}
	shard := d.shardFor(tokenID)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	if _, ok := shard.entries[tokenID]; !ok {
		shard.entries[tokenID] = expiresAt
	}
}

// IsRevoked reports whether a token id is revoked and its token has
// not yet naturally expired.
func (d *Denylist) IsRevoked(tokenID string) bool {
	shard := d.shardFor(tokenID)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	expiry, ok := shard.entries[tokenID]
	if !ok {
		return false
	}
	return expiry.After(time.Now())
}

// Size returns the number of held entries across all shards.
func (d *Denylist) Size() int {
	total := 0
	for _, shard := range d.shards {
		shard.mu.Lock()
		total += len(shard.entries)
		shard.mu.Unlock()
	}
	return total
}

// Cleanup removes entries whose tokens have naturally expired.
func (d *Denylist) Cleanup() {
	now := time.Now()
	total := 0
	for _, shard := range d.shards {
		shard.mu.Lock()
		for id, expiry := range shard.entries {
			if !expiry.After(now) {
				delete(shard.entries, id)
			}
		}
		total += len(shard.entries)
		shard.mu.Unlock()
	}

	if d.sizeGauge != nil {
		d.sizeGauge.Set(float64(total))
	}
}

func (d *Denylist) cleanupLoop(interval time.Duration) {
	defer d.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.Cleanup()
		}
	}
}

// Close stops the background cleanup goroutine. It blocks until the
// goroutine has stopped.
func (d *Denylist) Close() {
	close(d.stopChan)
	d.wg.Wait()
}

// Compile-time interface check.
var _ RevocationStore = (*Denylist)(nil)

// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DispatchGrid Contributors

package auth

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lockout defaults.
const (
	// DefaultLockoutThreshold is the number of consecutive failures
	// that triggers a lockout for a client key.
	DefaultLockoutThreshold = 5

	// DefaultLockoutDuration is the time a client key stays locked
	// after crossing the threshold.
	DefaultLockoutDuration = 15 * time.Minute

	// DefaultTrackerCleanupInterval is the interval at which the
	// background sweep evicts stale records.
	DefaultTrackerCleanupInterval = 5 * time.Minute

	// DefaultRecordMaxAge is the age after which an idle record is
	// eligible for eviction.
	DefaultRecordMaxAge = time.Hour

	// trackerShardCount is the number of independently locked shards.
	// Operations on different keys rarely contend.
	trackerShardCount = 32
)

// TrackerConfig configures a LoginAttemptTracker. Zero fields fall
// back to the defaults above.
type TrackerConfig struct {
	// Threshold is the number of consecutive failures that locks a key.
	Threshold int

	// LockoutDuration is how long a key stays locked.
	LockoutDuration time.Duration

	// CleanupInterval is the interval of the background sweep.
	CleanupInterval time.Duration

	// RecordMaxAge is the idle age after which records are evicted.
	RecordMaxAge time.Duration
}

// attemptRecord tracks consecutive failures and lockout for one key.
type attemptRecord struct {
	failures    int
	lockedUntil time.Time
	lastAttempt time.Time
}

// trackerShard holds a slice of the key space under its own lock.
type trackerShard struct {
	mu      sync.Mutex
	records map[string]*attemptRecord
}

// LoginAttemptTracker tracks failed login attempts per client key and
// enforces a time-windowed lockout. It is safe for concurrent use; the
// key space is sharded so unrelated clients never contend on a lock.
//
// The tracker runs a background goroutine that evicts stale records.
// Call Close to stop it.
type LoginAttemptTracker struct {
	shards       [trackerShardCount]*trackerShard
	threshold    int
	lockDuration time.Duration
	recordMaxAge time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup

	// Gauge for tracked key count (nil if no registry provided).
	keysGauge prometheus.Gauge
}

// AttemptTracker is the contract the auth service depends on. It is
// satisfied by LoginAttemptTracker.
type AttemptTracker interface {
	// RecordFailure notes a failed attempt for the key, locking it
	// once the threshold is reached.
	RecordFailure(key string)

	// RecordSuccess clears the failure state for the key.
	RecordSuccess(key string)

	// IsLocked reports whether the key is currently locked. An
	// elapsed lockout reads as unlocked; its counter is reset on the
	// next write.
	IsLocked(key string) bool
}

// NewLoginAttemptTracker creates a tracker with the given
// configuration and starts its cleanup goroutine. Call Close to stop it.
func NewLoginAttemptTracker(cfg TrackerConfig) *LoginAttemptTracker {
	return newLoginAttemptTracker(cfg, nil)
}

// NewLoginAttemptTrackerWithRegistry additionally registers a gauge of
// tracked keys with the provided Prometheus registry.
func NewLoginAttemptTrackerWithRegistry(cfg TrackerConfig, reg prometheus.Registerer) *LoginAttemptTracker {
	return newLoginAttemptTracker(cfg, reg)
}

func newLoginAttemptTracker(cfg TrackerConfig, reg prometheus.Registerer) *LoginAttemptTracker {
	threshold := cfg.Threshold
	if threshold <= 0 {
		threshold = DefaultLockoutThreshold
	}
	lockDuration := cfg.LockoutDuration
	if lockDuration <= 0 {
		lockDuration = DefaultLockoutDuration
	}
	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultTrackerCleanupInterval
	}
	recordMaxAge := cfg.RecordMaxAge
	if recordMaxAge <= 0 {
		recordMaxAge = DefaultRecordMaxAge
	}

	t := &LoginAttemptTracker{
		threshold:    threshold,
		lockDuration: lockDuration,
		recordMaxAge: recordMaxAge,
		stopChan:     make(chan struct{}),
	}
	for i := range t.shards {
		t.shards[i] = &trackerShard{records: make(map[string]*attemptRecord)}
	}

	if reg != nil {
		t.keysGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "authcore_tracked_attempt_keys",
			Help: "Current number of client keys with tracked login attempts",
		})
		reg.MustRegister(t.keysGauge)
	}

	t.wg.Add(1)
	go t.cleanupLoop(cleanupInterval)

	return t
}

// shardFor picks the shard owning the key.
func (t *LoginAttemptTracker) shardFor(key string) *trackerShard {
	h := fnv.New32a()
	h.Write([]byte(key)) //nolint:errcheck // fnv.Write never fails
	return t.shards[h.Sum32()%trackerShardCount]
}

// RecordFailure notes a failed attempt for the key. An expired lockout
// resets the counter before the new failure is counted, so a stale
// record never re-locks on its first fresh failure.
func (t *LoginAttemptTracker) RecordFailure(key string) {
	shard := t.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	now := time.Now()

	rec, ok := shard.records[key]
	if !ok {
		rec = &attemptRecord{}
		shard.records[key] = rec
	}

	// Expired lockout: counter restarts from zero.
	if !rec.lockedUntil.IsZero() && !rec.lockedUntil.After(now) {
		rec.failures = 0
		rec.lockedUntil = time.Time{}
	}

	rec.failures++
	rec.lastAttempt = now
	if rec.failures >= t.threshold {
		rec.lockedUntil = now.Add(t.lockDuration)
	}
}

// RecordSuccess clears the failure state for the key.
func (t *LoginAttemptTracker) RecordSuccess(key string) {
	shard := t.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	delete(shard.records, key)
}

// IsLocked reports whether the key is currently locked.
func (t *LoginAttemptTracker) IsLocked(key string) bool {
	shard := t.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	rec, ok := shard.records[key]
	if !ok {
		return false
	}
	return rec.lockedUntil.After(time.Now())
}

// Failures returns the current consecutive-failure count for a key.
// Useful for testing and monitoring.
func (t *LoginAttemptTracker) Failures(key string) int {
	shard := t.shardFor(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	rec, ok := shard.records[key]
	if !ok {
		return 0
	}
	return rec.failures
}

// Cleanup evicts unlocked records that have been idle longer than
// maxAge. Called automatically by the background goroutine; may also
// be invoked manually.
func (t *LoginAttemptTracker) Cleanup(maxAge time.Duration) {
	threshold := time.Now().Add(-maxAge)
	now := time.Now()

	total := 0
	for _, shard := range t.shards {
		shard.mu.Lock()
		for key, rec := range shard.records {
			if rec.lockedUntil.After(now) {
				continue // never evict an active lockout
			}
			if rec.lastAttempt.Before(threshold) {
				delete(shard.records, key)
			}
		}
		total += len(shard.records)
		shard.mu.Unlock()
	}

	if t.keysGauge != nil {
		t.keysGauge.Set(float64(total))
	}
}

// KeyCount returns the number of tracked keys across all shards.
func (t *LoginAttemptTracker) KeyCount() int {
	total := 0
	for _, shard := range t.shards {
		shard.mu.Lock()
		total += len(shard.records)
		shard.mu.Unlock()
	}
	return total
}

func (t *LoginAttemptTracker) cleanupLoop(interval time.Duration) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.Cleanup(t.recordMaxAge)
		}
	}
}

// Close stops the background cleanup goroutine. It blocks until the
// goroutine has stopped.
func (t *LoginAttemptTracker) Close() {
	close(t.stopChan)
	t.wg.Wait()
}

// Compile-time interface check.
var _ AttemptTracker = (*LoginAttemptTracker)(nil)

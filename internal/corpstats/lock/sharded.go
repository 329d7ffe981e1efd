// Package lock serializes reconciliation per snapshot.
package lock

import (
	"context"
	"sync"
	"time"

	"corpstats/internal/corpstats/ports"
	id "corpstats/pkg/domain"
	dErrors "corpstats/pkg/domain-errors"
)

// Operations are distributed across shards by a hash of the snapshot ID, so
// unrelated snapshots rarely contend and the same snapshot always does.
const numShards = 64

const defaultLockTimeout = 2 * time.Minute

// Sharded is an in-process Locker. Each shard is a one-slot channel so a
// waiting caller can give up when its context ends.
type Sharded struct {
	shards  [numShards]chan struct{}
	timeout time.Duration
}

var _ ports.Locker = (*Sharded)(nil)

// NewSharded builds a sharded locker. A zero timeout uses the default wait limit.
func NewSharded(timeout time.Duration) *Sharded {
	l := &Sharded{timeout: timeout}
	if l.timeout == 0 {
		l.timeout = defaultLockTimeout
	}
	for i := range l.shards {
		l.shards[i] = make(chan struct{}, 1)
	}
	return l
}

// Lock blocks until the snapshot's shard is free or ctx ends. The lock does
// not expire, so the held context only ends with ctx or unlock.
func (l *Sharded) Lock(ctx context.Context, snapshotID id.SnapshotID) (context.Context, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeTimeout, "lock aborted: context cancelled")
	}
	waitCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	shard := l.shards[selectShard(snapshotID)]
	select {
	case shard <- struct{}{}:
	case <-waitCtx.Done():
		return nil, nil, dErrors.Wrap(waitCtx.Err(), dErrors.CodeTimeout, "timed out waiting for snapshot lock")
	}

	held, cancel := context.WithCancel(ctx)
	var once sync.Once
	return held, func() {
		once.Do(func() {
			cancel()
			<-shard
		})
	}, nil
}

func selectShard(snapshotID id.SnapshotID) int {
	return int(hashBytes(snapshotID[:]) % numShards)
}

// hashBytes is FNV-1a.
func hashBytes(b []byte) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for _, c := range b {
		h ^= uint32(c)
		h *= fnvPrime
	}
	return h
}

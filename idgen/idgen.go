// Package idgen produces snowflake-style 64-bit IDs: a 42-bit millisecond
// timestamp (relative to a custom epoch), a 10-bit machine id, and a
// 12-bit sequence. Grounded on original_source/src/utils/util.rs's
// generate_uid, same epoch and bit layout. No snowflake-ID library appears
// anywhere in the retrieved pack (the only "Snowflake" hits are the
// unrelated cloud data-warehouse driver), so this is a justified
// hand-rolled component.
package idgen

import (
	"math/rand"
	"sync"
	"time"
)

// customEpochMillis is 2023-12-31T15:40:00Z in Unix milliseconds.
const customEpochMillis = 1_704_037_200_000

// Generator produces IDs for one logical machine/process.
type Generator struct {
	machineID int64

	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a Generator with a randomly chosen machine id, matching the
// original's per-process random machine_id assignment.
func New() *Generator {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Generator{machineID: int64(rng.Intn(1024)), rng: rng}
}

// Generate returns a new id. Safe for concurrent use.
func (g *Generator) Generate() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := time.Now().UnixMilli() - customEpochMillis
	timestampPart := (timestamp & 0x3FFFFFFFFFF) << 22
	machinePart := (g.machineID & 0x3FF) << 12
	sequence := int64(g.rng.Intn(4096))
	return timestampPart | machinePart | sequence
}

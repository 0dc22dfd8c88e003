package scenario

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible scenario run.
// Two runs with the same SimulationKey and scenario MUST produce identical
// timelines.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// PartitionedRNG provides deterministic, isolated RNG instances per process,
// so adding or reordering one process's jittered steps never shifts the
// random stream of another.
//
// Derivation formula: masterSeed XOR fnv1a64(processName)
//
// Thread-safety: NOT thread-safe. Only one process body runs at a time, which
// is the only place draws happen.
type PartitionedRNG struct {
	key       SimulationKey
	processes map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:       key,
		processes: make(map[string]*rand.Rand),
	}
}

// ForProcess returns a deterministically-seeded RNG for the named process.
// The same name always returns the same *rand.Rand instance (cached).
func (p *PartitionedRNG) ForProcess(name string) *rand.Rand {
	if rng, ok := p.processes[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.processes[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

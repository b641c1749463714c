// Package partition maps a k-mer's packed word to an owning peer id, per
// spec.md §4.D. Two interchangeable policies are offered; a deployment
// picks one and every peer must use the same one, since the partitioner
// has to be a pure, identical function of (word, P) on every process.
package partition

import "github.com/cespare/xxhash"

// Policy assigns a peer id in [0, P) to a k-mer word.
type Policy func(word uint64, p int) int

// Mix is the cheap, stateless Thomas-Wang 64-bit integer mixer from
// spec.md §4.D policy 1, preferred for throughput.
func Mix(word uint64, p int) int {
	k := word
	k = ^k + (k << 21)
	k ^= k >> 24
	k = (k + (k << 3)) + (k << 8)
	k ^= k >> 14
	k = (k + (k << 2)) + (k << 4)
	k ^= k >> 28
	k = k + (k << 31)
	return int(k % uint64(p))
}

// Hash is policy 2: a standard hash of the word. It must be identical on
// every peer, which rules out Go's built-in hash/maphash (seeded
// per-process) — xxhash.Sum64 is unseeded and deterministic across
// processes, so it is the one used here.
func Hash(word uint64, p int) int {
	var buf [8]byte
	be64(buf[:], word)
	return int(xxhash.Sum64(buf[:]) % uint64(p))
}

func be64(buf []byte, v uint64) {
	buf[0] = byte(v >> 56)
	buf[1] = byte(v >> 48)
	buf[2] = byte(v >> 40)
	buf[3] = byte(v >> 32)
	buf[4] = byte(v >> 24)
	buf[5] = byte(v >> 16)
	buf[6] = byte(v >> 8)
	buf[7] = byte(v)
}

// ByName resolves a CLI-facing policy name to a Policy function.
func ByName(name string) (Policy, bool) {
	switch name {
	case "mix", "":
		return Mix, true
	case "hash":
		return Hash, true
	default:
		return nil, false
	}
}

package ltc

import "sync"

// Latch holds the most recently decoded timecode, jam-sync style: it is
// updated on every successful frame decode and holds its value between
// syncs. It is not an extrapolated running clock.
//
// The latch is tri-state rather than defaulting to 00:00:00:00, so
// callers can tell "never synced" apart from a genuine all-zero jam.
//
// Concurrency contract: one writer (the decode worker), any number of
// readers polling concurrently.
type Latch struct {
	mu     sync.RWMutex
	tc     Timecode
	synced bool
}

// Update overwrites the latched value. Called on every frame decode.
func (l *Latch) Update(tc Timecode) {
	l.mu.Lock()
	l.tc = tc
	l.synced = true
	l.mu.Unlock()
}

// Read returns the latched timecode and whether the latch has ever
// synced. Before the first sync the timecode is the zero value.
func (l *Latch) Read() (Timecode, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tc, l.synced
}

// String formats the latched value, "00:00:00:00" while unsynced. This
// is the legacy display form; callers that must distinguish the
// unsynced state use Read.
func (l *Latch) String() string {
	tc, _ := l.Read()
	return tc.String()
}

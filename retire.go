package threadpool

import (
	"sync"
	"unsafe"
)

// retireThreshold is the number of pending retirements a participant
// accumulates locally before it opportunistically runs scan().
const retireThreshold = 64

// retiredCell is one logically-removed queue node awaiting reclamation. reclaim
// is supplied by the Queue[T] that retired it, so the type-erased retirement
// engine never needs to know T; it recycles the node into that queue's node
// pool (leaving it to the GC only when that pool is full), which is what keeps the hazard-pointer
// discipline load-bearing under a garbage collector (see SPEC_FULL.md §2).
type retiredCell struct {
	ptr     unsafe.Pointer
	reclaim func(unsafe.Pointer)
}

// retirementList is an unordered bag of cells logically removed from the
// queue but not yet freed. Its only producer is the owning participant.
type retirementList struct {
	cells []retiredCell
}

// push appends cell to the list and, once it has reached retireThreshold,
// runs a scan against the supplied domain to reclaim whatever it safely can.
func (l *retirementList) push(domain *hazardDomain, cell retiredCell) {
	l.cells = append(l.cells, cell)
	if len(l.cells) >= retireThreshold {
		l.scan(domain)
	}
}

// scan snapshots every published hazard, opportunistically pulls in anything
// the global list is holding, then partitions the local list into "reclaim
// now" / "keep for next scan".
func (l *retirementList) scan(domain *hazardDomain) {
	hazards := make(map[unsafe.Pointer]struct{}, len(l.cells))
	domain.snapshot(hazards)

	if stolen := globalRetired.tryStealAll(); stolen != nil {
		l.cells = append(l.cells, stolen...)
	}

	kept := l.cells[:0]
	for _, c := range l.cells {
		if _, protected := hazards[c.ptr]; protected {
			kept = append(kept, c)
			continue
		}
		c.reclaim(c.ptr)
	}
	l.cells = kept
}

// flushTo moves every cell in l into g, unconditionally. Invoked when a
// participant's lifetime ends: when its pooled wrapper is released for the
// last time or collected (see hazard.go's finalizeParticipant).
func (l *retirementList) flushTo(g *globalRetiredList) {
	if len(l.cells) == 0 {
		return
	}
	g.absorb(l.cells)
	l.cells = nil
}

// globalRetiredList is the shared overflow bag that receives flushed
// per-participant lists and may only be bulk-drained at strict global
// quiescence. It is a process-wide singleton with an intentionally leaked
// lifetime — allocated once with no destructor — so that static destruction
// order at process exit can never race a still-retiring goroutine.
type globalRetiredList struct {
	mu    sync.Mutex
	cells []retiredCell
}

var globalRetired = &globalRetiredList{}

// absorb appends cells to the global list under its mutex.
func (g *globalRetiredList) absorb(cells []retiredCell) {
	g.mu.Lock()
	g.cells = append(g.cells, cells...)
	g.mu.Unlock()
}

// tryStealAll opportunistically merges the global retired list into the
// caller's local list under a try-lock, so a scan never blocks behind a
// contended add/drain on the global list. Uses sync.Mutex.TryLock (Go 1.18+).
func (g *globalRetiredList) tryStealAll() []retiredCell {
	if !g.mu.TryLock() {
		return nil
	}
	defer g.mu.Unlock()
	if len(g.cells) == 0 {
		return nil
	}
	stolen := g.cells
	g.cells = nil
	return stolen
}

// drainGlobal unconditionally reclaims every cell in the global list. Its
// precondition — strict global quiescence — is caller-enforced: it is
// reached only through DrainRetired, which Pool.Close calls after every
// worker has been joined. Violating the precondition is a
// QuiescenceViolation: undefined, not runtime-recoverable.
func drainGlobal() {
	globalRetired.mu.Lock()
	cells := globalRetired.cells
	globalRetired.cells = nil
	globalRetired.mu.Unlock()

	for _, c := range cells {
		c.reclaim(c.ptr)
	}
}

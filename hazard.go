package threadpool

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"
)

// defaultHazardCapacity bounds the number of concurrently live hazard slots.
// 2048 slots at two slots per participant supports roughly 1024 concurrent
// producer/consumer callers before newParticipant starts reporting
// ErrCapacityExhausted. Growing the registry is left as an extension.
const defaultHazardCapacity = 2048

// hazardDomain is a fixed-capacity registry of published hazard pointers plus
// a free-list of unused slot indices, shared by every Queue[T] in the
// process. Slots hold untyped unsafe.Pointer values so that one domain can
// protect nodes belonging to queues of different element types. The free
// list lets slot indices be reused across participant lifetimes instead of
// being handed out once and never reclaimed.
type hazardDomain struct {
	slots []unsafe.Pointer

	mu   sync.Mutex
	free []int32 // indices not currently reserved
}

func newHazardDomain(capacity int) *hazardDomain {
	if capacity <= 0 {
		capacity = defaultHazardCapacity
	}
	d := &hazardDomain{
		slots: make([]unsafe.Pointer, capacity),
		free:  make([]int32, capacity),
	}
	for i := range d.free {
		d.free[i] = int32(capacity - 1 - i)
	}
	return d
}

// acquireSlot reserves one index from the free list. It fails with
// ErrCapacityExhausted if every index is currently reserved.
func (d *hazardDomain) acquireSlot() (int32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := len(d.free)
	if n == 0 {
		return -1, ErrCapacityExhausted
	}
	idx := d.free[n-1]
	d.free = d.free[:n-1]
	return idx, nil
}

// releaseSlot clears the slot to nil and returns the index to the free pool.
// Callers must not double-release an index; doing so corrupts the free list.
func (d *hazardDomain) releaseSlot(idx int32) {
	atomic.StorePointer(&d.slots[idx], nil)
	d.mu.Lock()
	d.free = append(d.free, idx)
	d.mu.Unlock()
}

// publish stores p (a release write) into the given slot.
func (d *hazardDomain) publish(idx int32, p unsafe.Pointer) {
	atomic.StorePointer(&d.slots[idx], p)
}

// clear clears whatever hazard is published in the given slot without
// returning the slot's index to the free pool.
func (d *hazardDomain) clear(idx int32) {
	atomic.StorePointer(&d.slots[idx], nil)
}

// snapshot collects every currently non-nil hazard pointer into out. A value
// published or cleared concurrently with the scan may or may not be observed;
// either outcome is fine because the caller only needs a conservative
// approximation of "currently protected".
func (d *hazardDomain) snapshot(out map[unsafe.Pointer]struct{}) {
	for i := range d.slots {
		if p := atomic.LoadPointer(&d.slots[i]); p != nil {
			out[p] = struct{}{}
		}
	}
}

// participant is a per-goroutine convenience object: a pair of hazard slots
// reserved for the holder's lifetime, plus the holder's retired-node list.
// Go has neither a portable thread-local nor a destructor, so participants
// are cached in a bounded channel-backed participantCache (see queue.go's
// acquire/release) instead of a true thread-local; a finalizer returns the
// slots if the cached object is ever collected without an explicit flush.
type participant struct {
	domain     *hazardDomain
	slot0      int32
	slot1      int32
	retirement retirementList
}

func newParticipant(d *hazardDomain) (*participant, error) {
	s0, err := d.acquireSlot()
	if err != nil {
		return nil, err
	}
	s1, err := d.acquireSlot()
	if err != nil {
		d.releaseSlot(s0)
		return nil, err
	}
	p := &participant{domain: d, slot0: s0, slot1: s1}
	runtime.SetFinalizer(p, finalizeParticipant)
	return p, nil
}

// finalizeParticipant runs if a cached participant is collected without an
// explicit release ever having run; it returns the hazard slots to the
// domain and flushes any cells the participant had retired but not yet
// scanned away into the global retired list.
func finalizeParticipant(p *participant) {
	p.domain.releaseSlot(p.slot0)
	p.domain.releaseSlot(p.slot1)
	p.retirement.flushTo(globalRetired)
}

// protect0/protect1 publish a hazard in the participant's first/second slot.
func (p *participant) protect0(v unsafe.Pointer) { p.domain.publish(p.slot0, v) }
func (p *participant) protect1(v unsafe.Pointer) { p.domain.publish(p.slot1, v) }

// clearBoth clears both of the participant's hazard slots. Called on every
// exit path of Enqueue and TryDequeue so no hazard is left published once
// the operation has returned.
func (p *participant) clearBoth() {
	p.domain.clear(p.slot0)
	p.domain.clear(p.slot1)
}

package spiengine

import (
	"container/list"
	"sync"

	"github.com/brickd/brickd/brick"
)

// entry pairs a packet with the slave index it targets.
type entry struct {
	slaveIndex int
	packet     brick.Packet
}

// queue is the FIFO of packets awaiting transmission, shared between the
// event-loop producer (push) and the SPI-thread consumer (peek/pop). The
// mutex is held only for the push/peek/pop bookkeeping, never across I/O:
// the SPI thread peeks the head, releases the lock, performs the
// transceive, then re-acquires the lock only to pop or leave the head in
// place for retry.
type queue struct {
	mu sync.Mutex
	l  list.List
}

// push appends an entry. It never blocks: the queue is bounded only by
// memory.
func (q *queue) push(slaveIndex int, packet brick.Packet) {
	q.mu.Lock()
	q.l.PushBack(entry{slaveIndex, packet})
	q.mu.Unlock()
}

// peek returns the head entry without removing it, and whether one exists.
func (q *queue) peek() (entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	e := q.l.Front()
	if e == nil {
		return entry{}, false
	}
	return e.Value.(entry), true
}

// pop removes the head entry, if any.
func (q *queue) pop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if e := q.l.Front(); e != nil {
		q.l.Remove(e)
	}
}

// len reports the number of queued entries, for metrics and tests.
func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.l.Len()
}

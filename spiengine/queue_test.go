package spiengine

import (
	"testing"

	"github.com/brickd/brickd/brick"
)

func TestQueue_fifoOrder(t *testing.T) {
	var q queue
	q.push(0, brick.Packet{UID: 1})
	q.push(1, brick.Packet{UID: 2})

	e, ok := q.peek()
	if !ok || e.packet.UID != 1 {
		t.Fatalf("peek() = %+v, %v", e, ok)
	}
	q.pop()
	e, ok = q.peek()
	if !ok || e.packet.UID != 2 {
		t.Fatalf("peek() after pop = %+v, %v", e, ok)
	}
	if q.len() != 1 {
		t.Fatalf("len() = %d, want 1", q.len())
	}
}

func TestQueue_peekEmpty(t *testing.T) {
	var q queue
	if _, ok := q.peek(); ok {
		t.Fatal("peek() on empty queue must report false")
	}
}

func TestQueue_peekLeavesHeadOnRetry(t *testing.T) {
	var q queue
	q.push(0, brick.Packet{UID: 7})
	// Simulate a busy retry: peek without popping, twice in a row.
	e1, _ := q.peek()
	e2, _ := q.peek()
	if e1.packet.UID != e2.packet.UID {
		t.Fatal("peek must be idempotent until pop is called")
	}
	if q.len() != 1 {
		t.Fatalf("len() = %d, want 1 (not popped)", q.len())
	}
}

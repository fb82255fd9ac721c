package spiengine

import (
	"testing"
	"time"
)

func TestRun_exitsImmediatelyWithNoSlaves(t *testing.T) {
	conn := &scriptedConn{reply: func(int, []byte) ([]byte, error) { return emptyFrame(), nil }}
	e := newTestEngine(t, conn, 1)
	// e.table.Num is 0: no enumeration was run.
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		e.Run(stop)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run must return immediately when no slaves are present")
	}
}

func TestRun_stopsPromptly(t *testing.T) {
	conn := &scriptedConn{reply: func(int, []byte) ([]byte, error) { return emptyFrame(), nil }}
	e := newTestEngine(t, conn, 1)
	e.table.RecordUIDs(0, []uint32{1})
	e.table.Num = 1
	e.cfg.TickPeriod = time.Millisecond

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		e.Run(stop)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after stop was closed")
	}
	if conn.calls == 0 {
		t.Fatal("expected at least one tick to have executed")
	}
}

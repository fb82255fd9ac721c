// Package slave tracks the up-to-eight physical devices addressable on the
// stack bus: their discovery status, their select line, and the UIDs they
// answer to.
package slave

import (
	"fmt"

	"github.com/brickd/brickd/conn/gpio"
)

// Count is the fixed number of stack addresses the bus supports.
const Count = 8

// MaxUIDs bounds how many UIDs recordUIDs keeps per slave; enumeration
// responses are truncated to this cap.
const MaxUIDs = 16

// Status is a slave's discovery/runtime state.
type Status int

const (
	// Absent means enumeration found nothing at this address, or it has
	// not yet been probed.
	Absent Status = iota
	// Available means the slave answered and can accept a request.
	Available
	// AvailableBusy means the slave answered but signalled it cannot
	// accept another request yet.
	AvailableBusy
)

func (s Status) String() string {
	switch s {
	case Absent:
		return "absent"
	case Available:
		return "available"
	case AvailableBusy:
		return "available-busy"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Slave is one stack-bus device slot, created once at startup and never
// reallocated; its StackAddress is also its index in the Table.
type Slave struct {
	StackAddress int
	Status       Status
	SelectLine   gpio.PinOut

	uids     [MaxUIDs]uint32
	uidCount int
}

// UIDs returns the slave's recorded UID list.
func (s *Slave) UIDs() []uint32 {
	return s.uids[:s.uidCount]
}

// OwnsUID reports whether uid was recorded for this slave.
func (s *Slave) OwnsUID(uid uint32) bool {
	for _, u := range s.uids[:s.uidCount] {
		if u == uid {
			return true
		}
	}
	return false
}

// recordUIDs overwrites the slave's UID list, truncating to MaxUIDs.
func (s *Slave) recordUIDs(uids []uint32) {
	n := len(uids)
	if n > MaxUIDs {
		n = MaxUIDs
	}
	copy(s.uids[:n], uids[:n])
	s.uidCount = n
}

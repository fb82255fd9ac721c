package slave

// Table is the fixed 8-slot array of slaves plus the count of contiguous
// present slaves discovered during enumeration.
//
// Invariant: indices [0, Num) are Available or AvailableBusy; indices
// [Num, Count) are Absent. Enumeration stops at the first Absent address,
// so holes are impossible: Num is a prefix count, never a sparse set.
type Table struct {
	slots [Count]Slave
	Num   int
}

// NewTable returns a table with every slot marked Absent at its stack
// address, ready for enumeration to populate.
func NewTable() *Table {
	t := &Table{}
	for i := range t.slots {
		t.slots[i].StackAddress = i
	}
	return t
}

// Get returns the slave at index, or nil if index is out of range.
func (t *Table) Get(index int) *Slave {
	if index < 0 || index >= Count {
		return nil
	}
	return &t.slots[index]
}

// FindByUID does a linear scan over the present slaves for one owning uid.
func (t *Table) FindByUID(uid uint32) *Slave {
	for i := 0; i < t.Num; i++ {
		if t.slots[i].OwnsUID(uid) {
			return &t.slots[i]
		}
	}
	return nil
}

// MarkBusy records the slave's last-known busy bit. It is the only way a
// slave's Status toggles between Available and AvailableBusy once present.
func (t *Table) MarkBusy(index int, busy bool) {
	s := t.Get(index)
	if s == nil || s.Status == Absent {
		return
	}
	if busy {
		s.Status = AvailableBusy
	} else {
		s.Status = Available
	}
}

// RecordUIDs sets the slave at index Available and records its UID list.
// It is called exactly once per slave, at the end of a successful
// enumeration round for that address.
func (t *Table) RecordUIDs(index int, uids []uint32) {
	s := t.Get(index)
	if s == nil {
		return
	}
	s.Status = Available
	s.recordUIDs(uids)
}

// MarkAbsent records that enumeration found nothing at index. It does not
// change Num.
func (t *Table) MarkAbsent(index int) {
	s := t.Get(index)
	if s == nil {
		return
	}
	s.Status = Absent
}

// Present returns the slaves in [0, Num).
func (t *Table) Present() []Slave {
	return t.slots[:t.Num]
}

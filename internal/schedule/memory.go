package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryLedger is an in-process Ledger. Each doctor gets its own critical
// section so reservations for different doctors never contend.
type MemoryLedger struct {
	mu       sync.Mutex
	byDoctor map[int64]*doctorCalendar
	nextID   atomic.Int64
}

type doctorCalendar struct {
	mu     sync.Mutex
	byDate map[string][]Booking
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{byDoctor: make(map[int64]*doctorCalendar)}
}

func (l *MemoryLedger) calendar(doctorID int64) *doctorCalendar {
	l.mu.Lock()
	defer l.mu.Unlock()
	cal, ok := l.byDoctor[doctorID]
	if !ok {
		cal = &doctorCalendar{byDate: make(map[string][]Booking)}
		l.byDoctor[doctorID] = cal
	}
	return cal
}

// IsAvailable reports whether [start, end) is free for the doctor on date.
func (l *MemoryLedger) IsAvailable(ctx context.Context, doctorID int64, date string, start, end TimeOfDay) (bool, error) {
	if err := validateInterval(date, start, end); err != nil {
		return false, err
	}
	cal := l.calendar(doctorID)
	cal.mu.Lock()
	defer cal.mu.Unlock()
	return !cal.overlapsLocked(date, start, end), nil
}

// Reserve commits [start, end) for the doctor, failing with ErrSlotConflict
// if any committed interval overlaps. Check and insert happen under the
// doctor's lock.
func (l *MemoryLedger) Reserve(ctx context.Context, doctorID int64, date string, start, end TimeOfDay) (*Booking, error) {
	if err := validateInterval(date, start, end); err != nil {
		return nil, err
	}
	cal := l.calendar(doctorID)
	cal.mu.Lock()
	defer cal.mu.Unlock()

	if cal.overlapsLocked(date, start, end) {
		return nil, ErrSlotConflict
	}

	booking := Booking{
		ID:        l.nextID.Add(1),
		DoctorID:  doctorID,
		Date:      date,
		Start:     start,
		End:       end,
		CreatedAt: time.Now().UTC(),
	}
	cal.byDate[date] = append(cal.byDate[date], booking)
	return &booking, nil
}

// BookedDoctorIDs returns doctors with a committed interval overlapping
// [start, end) on date.
func (l *MemoryLedger) BookedDoctorIDs(ctx context.Context, date string, start, end TimeOfDay) (map[int64]struct{}, error) {
	if err := validateInterval(date, start, end); err != nil {
		return nil, err
	}

	l.mu.Lock()
	calendars := make(map[int64]*doctorCalendar, len(l.byDoctor))
	for id, cal := range l.byDoctor {
		calendars[id] = cal
	}
	l.mu.Unlock()

	booked := make(map[int64]struct{})
	for id, cal := range calendars {
		cal.mu.Lock()
		if cal.overlapsLocked(date, start, end) {
			booked[id] = struct{}{}
		}
		cal.mu.Unlock()
	}
	return booked, nil
}

// BookingsFor lists the committed intervals for a doctor on a date.
func (l *MemoryLedger) BookingsFor(ctx context.Context, doctorID int64, date string) ([]Booking, error) {
	cal := l.calendar(doctorID)
	cal.mu.Lock()
	defer cal.mu.Unlock()
	out := make([]Booking, len(cal.byDate[date]))
	copy(out, cal.byDate[date])
	return out, nil
}

func (c *doctorCalendar) overlapsLocked(date string, start, end TimeOfDay) bool {
	for _, b := range c.byDate[date] {
		if start < b.End && b.Start < end {
			return true
		}
	}
	return false
}

package doctors

import (
	"context"
	"sort"

	"github.com/carebook/appointment-platform/internal/schedule"
)

// Matcher finds candidate doctors for a specialty/location and filters the
// candidates by ledger availability when a concrete slot is on the table.
type Matcher struct {
	repo   Repository
	ledger schedule.Ledger
}

// NewMatcher creates a matcher over the given repository and ledger.
func NewMatcher(repo Repository, ledger schedule.Ledger) *Matcher {
	return &Matcher{repo: repo, ledger: ledger}
}

// ByLocationAndSpecialty returns candidate doctors unfiltered by
// availability. Either argument may be empty.
func (m *Matcher) ByLocationAndSpecialty(ctx context.Context, location, specialty string) ([]Doctor, error) {
	return m.repo.Find(ctx, Filter{Specialty: specialty, Location: location})
}

// AvailableFor excludes doctors the ledger reports as booked for the slot.
func (m *Matcher) AvailableFor(ctx context.Context, candidates []Doctor, date string, start, end schedule.TimeOfDay) ([]Doctor, error) {
	booked, err := m.ledger.BookedDoctorIDs(ctx, date, start, end)
	if err != nil {
		return nil, err
	}

	out := make([]Doctor, 0, len(candidates))
	for _, d := range candidates {
		if _, taken := booked[d.ID]; !taken {
			out = append(out, d)
		}
	}
	return out, nil
}

// RankByRating orders doctors by descending rating. Ties keep the order the
// underlying store returned (stable).
func RankByRating(ds []Doctor) []Doctor {
	out := make([]Doctor, len(ds))
	copy(out, ds)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	return out
}

// BestRated picks the highest-rated doctor, ties broken by store order.
// Returns false when the list is empty.
func BestRated(ds []Doctor) (Doctor, bool) {
	if len(ds) == 0 {
		return Doctor{}, false
	}
	best := ds[0]
	for _, d := range ds[1:] {
		if d.Rating > best.Rating {
			best = d
		}
	}
	return best, true
}

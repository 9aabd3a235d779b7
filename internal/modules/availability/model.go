// README: Availability rules for bookable time slots.
package availability

// Dates are exchanged as "2006-01-02" and times of day as "15:04", the
// formats the booking form submits.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// BlockedSet is the operator's blocked times for a single date.
type BlockedSet map[string]struct{}

func NewBlockedSet(times []string) BlockedSet {
	set := make(BlockedSet, len(times))
	for _, t := range times {
		set[t] = struct{}{}
	}
	return set
}

func (s BlockedSet) Contains(timeOfDay string) bool {
	_, ok := s[timeOfDay]
	return ok
}

// README: Availability service decides which slots are bookable given the
// blocked-slot store, the lead-time rule, and globally blocked weekdays.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tempmotion/internal/config"
)

var ErrBadDate = errors.New("invalid date or time")

// BlockedSlotStore lists the operator's blocked times for one date.
type BlockedSlotStore interface {
	ListBlockedTimes(ctx context.Context, date string) ([]string, error)
}

type Service struct {
	store BlockedSlotStore
	cfg   config.ScheduleConfig
	loc   *time.Location
	now   func() time.Time
}

func NewService(store BlockedSlotStore, cfg config.ScheduleConfig) (*Service, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load service timezone: %w", err)
	}
	return &Service{store: store, cfg: cfg, loc: loc, now: time.Now}, nil
}

// Location returns the service time zone all slots are interpreted in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// BlockedTimes returns the operator-blocked times of day for a date.
func (s *Service) BlockedTimes(ctx context.Context, date string) ([]string, error) {
	if _, err := time.ParseInLocation(DateLayout, date, s.loc); err != nil {
		return nil, ErrBadDate
	}
	return s.store.ListBlockedTimes(ctx, date)
}

// SlotBookable reports whether (date, timeOfDay) can be booked right now.
func (s *Service) SlotBookable(ctx context.Context, date, timeOfDay string) (bool, error) {
	times, err := s.store.ListBlockedTimes(ctx, date)
	if err != nil {
		return false, err
	}
	return Bookable(date, timeOfDay, NewBlockedSet(times), s.now().In(s.loc), s.cfg, s.loc)
}

// Bookable is the pure slot rule. A slot is not bookable when it is in the
// operator's blocked set, its weekday is globally blocked, or it falls on
// today and starts earlier than now + lead time. The clock is a parameter so
// the rule is deterministic under test.
func Bookable(date, timeOfDay string, blocked BlockedSet, now time.Time, cfg config.ScheduleConfig, loc *time.Location) (bool, error) {
	slot, err := parseSlot(date, timeOfDay, loc)
	if err != nil {
		return false, err
	}
	if blocked.Contains(timeOfDay) {
		return false, nil
	}
	for _, wd := range cfg.BlockedWeekdays {
		if slot.Weekday() == wd {
			return false, nil
		}
	}
	now = now.In(loc)
	if sameDate(slot, now) && slot.Before(now.Add(cfg.LeadTime)) {
		return false, nil
	}
	return true, nil
}

// EarliestBookableTime returns the earliest time of day bookable on the given
// date. The lead-time lower bound only applies to today, so any other date
// returns ok=false (no bound). For today the result is now + lead time
// rounded up to the slot step; ok=false also means the rounded time fell past
// midnight and nothing is bookable today.
func EarliestBookableTime(date string, now time.Time, cfg config.ScheduleConfig, loc *time.Location) (string, bool, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return "", false, ErrBadDate
	}
	now = now.In(loc)
	if !sameDate(day, now) {
		return "", false, nil
	}

	earliest := now.Add(cfg.LeadTime)
	step := cfg.SlotStep
	if step <= 0 {
		step = 15 * time.Minute
	}
	if rem := earliest.Sub(day) % step; rem != 0 {
		earliest = earliest.Add(step - rem)
	}
	if !sameDate(earliest, day) {
		return "", false, nil
	}
	return earliest.Format(TimeLayout), true, nil
}

func parseSlot(date, timeOfDay string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+timeOfDay, loc)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

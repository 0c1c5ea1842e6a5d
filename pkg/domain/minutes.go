package domain

import "fmt"

// MinutesInDay is the length of a simulated day. Minute 1 is the first minute
// after 03:00 and minute 1440 ends at 03:00 the next morning.
const MinutesInDay = 1440

// DefaultTripTime is the placeholder departure and arrival minute written on
// newly chained trips until a time-of-day model replaces it.
const DefaultTripTime = 180

// MinuteSeries holds one value per minute of the simulated day. Index i holds
// the state after minute i+1.
type MinuteSeries [MinutesInDay]float64

// MinuteIndex converts a day minute (1..MinutesInDay) to a series index.
func MinuteIndex(minute int) (int, error) {
	if minute < 1 || minute > MinutesInDay {
		return 0, fmt.Errorf("%w: minute %d not in 1..%d", ErrMinuteOutOfRange, minute, MinutesInDay)
	}
	return minute - 1, nil
}

// At returns the value recorded after the given day minute.
func (s *MinuteSeries) At(minute int) (float64, error) {
	i, err := MinuteIndex(minute)
	if err != nil {
		return 0, err
	}
	return s[i], nil
}

// Set stores v after the given day minute.
func (s *MinuteSeries) Set(minute int, v float64) error {
	i, err := MinuteIndex(minute)
	if err != nil {
		return err
	}
	s[i] = v
	return nil
}

// Reset zeroes every entry.
func (s *MinuteSeries) Reset() {
	*s = MinuteSeries{}
}

// Slice exposes the backing storage as a slice for vector helpers.
func (s *MinuteSeries) Slice() []float64 {
	return s[:]
}

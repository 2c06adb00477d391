package domain

import "fmt"

const (
	// SecondsPerDay is the default rollup bucket length.
	SecondsPerDay int64 = 86400

	// LaunchDay is the epoch day of 17 Dec 2020 00:00:00 UTC (1608163200 / 86400).
	// Day numbers are counted from it.
	LaunchDay int64 = 18613
)

// DefaultCalendar buckets timestamps into UTC days counted from LaunchDay.
var DefaultCalendar = Calendar{DayLength: SecondsPerDay, EpochDay: LaunchDay}

// Calendar maps unix timestamps (seconds) onto numbered day buckets.
type Calendar struct {
	DayLength int64
	EpochDay  int64
}

// Day is one bucket of a Calendar. End - Start is always the day length.
type Day struct {
	Number int64
	Start  int64
	End    int64
}

// Validate checks the calendar can bucket timestamps.
func (c Calendar) Validate() error {
	if c.DayLength <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCalendar, c.DayLength)
	}
	return nil
}

// Day returns the bucket owning timestamp.
func (c Calendar) Day(timestamp int64) (Day, error) {
	if err := c.Validate(); err != nil {
		return Day{}, err
	}
	if timestamp < 0 {
		return Day{}, fmt.Errorf("%w: got %d", ErrNegativeTimestamp, timestamp)
	}

	index := timestamp / c.DayLength
	start := index * c.DayLength

	return Day{
		Number: index - c.EpochDay,
		Start:  start,
		End:    start + c.DayLength,
	}, nil
}

package dates

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a date string cannot be interpreted.
var ErrInvalidDate = errors.New("invalid date")

// Precision identifies which fields of a Date are known.
type Precision int

const (
	PrecisionYear Precision = iota
	PrecisionMonth
	PrecisionDay
)

// String returns the precision name.
func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	default:
		return "unknown"
	}
}

// Date is a calendar date of year, month or day precision.
//
// Implementations are comparable values, so == is exact equality and Dates
// can be used as map keys.
type Date interface {
	// Precision reports the finest known field.
	Precision() Precision
	// YearValue returns the year.
	YearValue() int
	// String formats the date as YYYY, YYYY-MM or YYYY-MM-DD.
	String() string

	// contains reports whether d is this date or a finer date inside it.
	contains(d Date) bool
}

// Year is a year-only date.
type Year struct {
	Y int
}

// YearMonth is a date with known year and month.
type YearMonth struct {
	Y int
	M time.Month
}

// FullDate is a date with known year, month and day.
type FullDate struct {
	Y int
	M time.Month
	D int
}

func (y Year) Precision() Precision { return PrecisionYear }
func (ym YearMonth) Precision() Precision { return PrecisionMonth }
func (fd FullDate) Precision() Precision { return PrecisionDay }

func (y Year) YearValue() int { return y.Y }
func (ym YearMonth) YearValue() int { return ym.Y }
func (fd FullDate) YearValue() int { return fd.Y }

func (y Year) String() string { return fmt.Sprintf("%04d", y.Y) }
func (ym YearMonth) String() string { return fmt.Sprintf("%04d-%02d", ym.Y, int(ym.M)) }
func (fd FullDate) String() string { return fmt.Sprintf("%04d-%02d-%02d", fd.Y, int(fd.M), fd.D) }

func (y Year) contains(d Date) bool {
	return d.YearValue() == y.Y
}

func (ym YearMonth) contains(d Date) bool {
	switch v := d.(type) {
	case YearMonth:
		return v == ym
	case FullDate:
		return v.Y == ym.Y && v.M == ym.M
	default:
		return false
	}
}

func (fd FullDate) contains(d Date) bool {
	v, ok := d.(FullDate)
	return ok && v == fd
}

// Equal reports exact tier-and-value equality.
func Equal(a, b Date) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// FuzzyMatch reports whether one date is a precision-tier ancestor of the
// other, or the two are equal.
func FuzzyMatch(a, b Date) bool {
	if a == nil || b == nil {
		return false
	}
	return a.contains(b) || b.contains(a)
}

// MonthKnown reports whether the month of d is known.
func MonthKnown(d Date) bool {
	return d != nil && d.Precision() >= PrecisionMonth
}

// DayKnown reports whether the day of d is known.
func DayKnown(d Date) bool {
	return d != nil && d.Precision() == PrecisionDay
}

// New builds the variant matching the known fields. A zero month yields a
// Year and a zero day yields a YearMonth. Out-of-range fields are rejected.
func New(year int, month time.Month, day int) (Date, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidDate, year)
	}
	if month == 0 {
		if day != 0 {
			return nil, fmt.Errorf("%w: day without month", ErrInvalidDate)
		}
		return Year{Y: year}, nil
	}
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d out of range", ErrInvalidDate, month)
	}
	if day == 0 {
		return YearMonth{Y: year, M: month}, nil
	}
	if day < 1 || day > daysIn(year, month) {
		return nil, fmt.Errorf("%w: day %d out of range for %04d-%02d", ErrInvalidDate, day, year, month)
	}
	return FullDate{Y: year, M: month, D: day}, nil
}

// ParseISO parses YYYY, YYYY-MM or YYYY-MM-DD.
func ParseISO(s string) (Date, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "-")
	if len(parts) == 0 || len(parts) > 3 || len(parts[0]) != 4 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	fields := make([]int, 3)
	for i, p := range parts {
		if p == "" || (i > 0 && len(p) > 2) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
		fields[i] = n
	}
	return New(fields[0], time.Month(fields[1]), fields[2])
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalText renders the ISO form so dates encode as JSON strings.
func (y Year) MarshalText() ([]byte, error) { return []byte(y.String()), nil }

// MarshalText renders the ISO form so dates encode as JSON strings.
func (ym YearMonth) MarshalText() ([]byte, error) { return []byte(ym.String()), nil }

// MarshalText renders the ISO form so dates encode as JSON strings.
func (fd FullDate) MarshalText() ([]byte, error) { return []byte(fd.String()), nil }

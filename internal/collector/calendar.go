package collector

import "time"

// TradingDays counts NYSE sessions in the half-open date range [from, to).
func TradingDays(from, to time.Time) int {
	d := civil(from)
	end := civil(to)
	n := 0
	for d.Before(end) {
		if IsTradingDay(d) {
			n++
		}
		d = d.AddDate(0, 0, 1)
	}
	return n
}

// IsTradingDay reports whether the NYSE is open on t's calendar date.
func IsTradingDay(t time.Time) bool {
	d := civil(t)
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !isHoliday(d)
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func isHoliday(d time.Time) bool {
	y := d.Year()
	for _, h := range holidays(y) {
		if h.Equal(d) {
			return true
		}
	}
	return false
}

func holidays(y int) []time.Time {
	date := func(m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }
	hs := []time.Time{
		// a Saturday New Year's Day is not observed on the prior Friday
		observed(date(time.January, 1), false),
		nthWeekday(y, time.January, time.Monday, 3),
		nthWeekday(y, time.February, time.Monday, 3),
		easter(y).AddDate(0, 0, -2),
		lastWeekday(y, time.May, time.Monday),
		observed(date(time.July, 4), true),
		nthWeekday(y, time.September, time.Monday, 1),
		nthWeekday(y, time.November, time.Thursday, 4),
		observed(date(time.December, 25), true),
	}
	if y >= 2022 {
		hs = append(hs, observed(date(time.June, 19), true))
	}
	return hs
}

// observed shifts a fixed-date holiday off the weekend. Saturday holidays move
// to Friday only when backToFriday is set.
func observed(d time.Time, backToFriday bool) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		if backToFriday {
			return d.AddDate(0, 0, -1)
		}
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func nthWeekday(y int, m time.Month, wd time.Weekday, n int) time.Time {
	d := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(n-1))
}

func lastWeekday(y int, m time.Month, wd time.Weekday) time.Time {
	d := time.Date(y, m+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// easter returns Easter Sunday (anonymous Gregorian algorithm).
func easter(y int) time.Time {
	a := y % 19
	b := y / 100
	c := y % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

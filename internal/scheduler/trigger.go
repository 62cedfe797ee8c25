package scheduler

import (
	"fmt"
	"time"
)

// Trigger decides whether a job is due at a given instant. lastFired is
// the instant the job last dispatched; wall-clock triggers use it to fire
// at most once per matching minute, interval triggers to space runs.
// A trigger never looks backwards: instants that pass while the process
// is down are permanently missed.
type Trigger interface {
	Due(now, lastFired time.Time) bool
	String() string
}

type minuteOfHour int

// MinuteOfHour fires once per hour, at the given minute.
func MinuteOfHour(minute int) Trigger {
	return minuteOfHour(minute)
}

func (m minuteOfHour) Due(now, lastFired time.Time) bool {
	return now.Minute() == int(m) && !sameMinute(now, lastFired)
}

func (m minuteOfHour) String() string {
	return fmt.Sprintf("every hour at :%02d", int(m))
}

type gatedHalfHour int

// GatedHalfHour fires at :30 past the hour, but only during the given
// gate hour. It fires at most once per day.
func GatedHalfHour(gateHour int) Trigger {
	return gatedHalfHour(gateHour)
}

func (g gatedHalfHour) Due(now, lastFired time.Time) bool {
	return now.Minute() == 30 && now.Hour() == int(g) && !sameMinute(now, lastFired)
}

func (g gatedHalfHour) String() string {
	return fmt.Sprintf("daily at %02d:30", int(g))
}

type dailyAt struct {
	hour   int
	minute int
}

// DailyAt fires once per day at the given wall-clock time.
func DailyAt(hour, minute int) Trigger {
	return dailyAt{hour: hour, minute: minute}
}

func (d dailyAt) Due(now, lastFired time.Time) bool {
	return now.Hour() == d.hour && now.Minute() == d.minute && !sameMinute(now, lastFired)
}

func (d dailyAt) String() string {
	return fmt.Sprintf("daily at %02d:%02d", d.hour, d.minute)
}

type every time.Duration

// Every fires once per interval, independent of wall-clock alignment.
func Every(interval time.Duration) Trigger {
	return every(interval)
}

func (e every) Due(now, lastFired time.Time) bool {
	return lastFired.IsZero() || now.Sub(lastFired) >= time.Duration(e)
}

func (e every) String() string {
	return fmt.Sprintf("every %s", time.Duration(e))
}

// sameMinute reports whether both instants fall in the same wall-clock
// minute, which is the resolution a matching instant is identified at.
func sameMinute(a, b time.Time) bool {
	return !b.IsZero() && a.Truncate(time.Minute).Equal(b.Truncate(time.Minute))
}

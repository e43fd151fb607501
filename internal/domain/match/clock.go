package match

import (
	"fmt"
	"math"
	"time"
)

// lastMinute is the boundary below which the game clock shows tenths.
const lastMinute = 60.0

// FormatClock renders remaining game time: MM:SS at or above one minute, 0:SS.T below it.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	if seconds >= lastMinute {
		m := int(seconds / 60)
		s := int(math.Mod(seconds, 60))
		return fmt.Sprintf("%02d:%02d", m, s)
	}

	totalTenths := int(math.RoundToEven(seconds * 10))
	if totalTenths < 0 {
		totalTenths = 0
	}
	sec := totalTenths / 10
	tenth := totalTenths % 10
	if sec > 59 {
		sec = 59
	}
	return fmt.Sprintf("0:%02d.%d", sec, tenth)
}

// FormatShot renders the shot clock as whole seconds rounded to nearest.
func FormatShot(seconds float64) int {
	shot := int(math.RoundToEven(seconds))
	if shot < 0 {
		return 0
	}
	return shot
}

// SetClock stores an authoritative game clock value and its derived text.
func (m *MatchState) SetClock(seconds float64, running bool) {
	if seconds < 0 {
		seconds = 0
	}
	m.ClockSeconds = seconds
	m.ClockText = FormatClock(seconds)
	m.ClockRunning = running
}

// SetShotClock stores an authoritative shot clock value and its derived display.
func (m *MatchState) SetShotClock(seconds float64, running bool) {
	if seconds < 0 {
		seconds = 0
	}
	m.ShotSeconds = seconds
	m.ShotClock = FormatShot(seconds)
	m.ShotRunning = running
}

// Advance counts running clocks down by elapsed, flooring at zero.
// It reports whether a displayed value changed. Running flags are never touched.
func (m *MatchState) Advance(elapsed time.Duration) bool {
	if elapsed <= 0 {
		return false
	}
	dt := elapsed.Seconds()
	changed := false

	if m.ClockRunning && m.ClockSeconds > 0 {
		m.ClockSeconds = math.Max(0, m.ClockSeconds-dt)
		if text := FormatClock(m.ClockSeconds); text != m.ClockText {
			m.ClockText = text
			changed = true
		}
	}

	if m.ShotRunning && m.ShotSeconds > 0 {
		m.ShotSeconds = math.Max(0, m.ShotSeconds-dt)
		if shot := FormatShot(m.ShotSeconds); shot != m.ShotClock {
			m.ShotClock = shot
			changed = true
		}
	}

	return changed
}

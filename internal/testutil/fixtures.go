package testutil

import "github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"

// Frame control bytes used by the scoreboard protocol.
const (
	soh = 0x01
	stx = 0x02
	etx = 0x03
)

// EncodeFrame wraps payload in a frame with a two-byte address and one filler byte after STX.
func EncodeFrame(payload string) []byte {
	out := []byte{soh, '0', '1', stx, '0'}
	out = append(out, payload...)
	return append(out, etx)
}

// SampleMatch returns a mid-game match fixture.
func SampleMatch() match.MatchState {
	m := match.NewMatchState()
	m.Home = match.TeamState{Name: "HOME", Score: 42, Fouls: 3, PeriodFouls: 3, Timeouts: 1}
	m.Away = match.TeamState{Name: "AWAY", Score: 39, Fouls: 2, PeriodFouls: 2}
	m.Period = 2
	m.SetClock(125, true)
	m.SetShotClock(14, true)
	return m
}

package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
)

func newTestDecoder(t *testing.T) *Decoder {
	t.Helper()
	names, err := NewNameDecoder(CharsetUTF8)
	require.NoError(t, err)
	return NewDecoder(names)
}

func decodeApply(t *testing.T, d *Decoder, m *match.MatchState, payload string) bool {
	t.Helper()
	msg, ok := d.Decode([]byte(payload))
	require.True(t, ok, "expected %q to decode", payload)
	return msg.Apply(m)
}

func TestDecodeMainClockScenario(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()
	m.Home.SetFouls(3)
	m.Away.SetFouls(2)

	// id, status (bit 1 set), filler, MM, SS, timeouts, two unused slots, period.
	changed := decodeApply(t, d, &m, "18"+"2"+"x"+"07"+"45"+"21"+"00"+"2")

	assert.True(t, changed)
	assert.True(t, m.ClockRunning)
	assert.Equal(t, "07:45", m.ClockText)
	assert.Equal(t, 465.0, m.ClockSeconds)
	assert.Equal(t, 2, m.Period)
	assert.Equal(t, 0, m.Home.PeriodFouls)
	assert.Equal(t, 0, m.Away.PeriodFouls)
	assert.Equal(t, 2, m.Home.Timeouts)
	assert.Equal(t, 1, m.Away.Timeouts)
}

func TestDecodeMainClockUnderAMinuteShowsTenths(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()

	decodeApply(t, d, &m, "18"+"0"+"x"+"00"+"45"+"00"+"00"+"1")

	assert.False(t, m.ClockRunning)
	assert.Equal(t, "0:45.0", m.ClockText)
	assert.Equal(t, 45.0, m.ClockSeconds)
}

func TestDecodeMainClockStatusAndPeriodFallback(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()
	m.Home.SetFouls(4)

	decodeApply(t, d, &m, "18"+"1"+"x"+"10"+"00")
	assert.False(t, m.ClockRunning, "status '1' has bit 1 clear")
	assert.Equal(t, "10:00", m.ClockText)
	assert.Equal(t, 1, m.Period, "short payload keeps period")
	assert.Equal(t, 0, m.Home.Timeouts, "short payload skips timeouts")

	decodeApply(t, d, &m, "18"+"3"+"x"+"05"+"00"+"11"+"00"+"0"+"4")
	assert.True(t, m.ClockRunning)
	assert.Equal(t, 4, m.Period, "period read from fallback slot")
	assert.Equal(t, 0, m.Home.PeriodFouls)

	m.Home.SetFouls(2)
	decodeApply(t, d, &m, "18"+"3"+"x"+"05"+"00"+"11"+"00"+"4")
	assert.Equal(t, 2, m.Home.PeriodFouls, "same period keeps period fouls")

	decodeApply(t, d, &m, "18"+"3"+"x"+"05"+"00"+"11"+"00"+"0")
	assert.Equal(t, 4, m.Period, "zero period is ignored")
}

func TestDecodeMainClockUnmappedPeriodPreserved(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()
	decodeApply(t, d, &m, "18"+"0"+"x"+"05"+"00"+"00"+"00"+"6")
	assert.Equal(t, 6, m.Period)
}

func TestDecodeScoresScenarios(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()

	decodeApply(t, d, &m, "30"+"x"+"040"+"080")
	assert.Equal(t, 4, m.Home.Score)
	assert.Equal(t, 8, m.Away.Score)

	m.Home.Score = 65
	decodeApply(t, d, &m, "30"+"x"+"070"+"080")
	assert.Equal(t, 70, m.Home.Score)
	assert.Equal(t, 8, m.Away.Score)

	m.Home.Score = 101
	decodeApply(t, d, &m, "30"+"x"+"103"+"017")
	assert.Equal(t, 103, m.Home.Score)
	assert.Equal(t, 17, m.Away.Score)
}

func TestDecodeScoresUnchangedReportsNoChange(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()
	assert.False(t, decodeApply(t, d, &m, "30"+"x"+"000"+"000"))
}

func TestDecodeFoulsClampsAndTracksPeriodMax(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()

	decodeApply(t, d, &m, "31"+"xx"+"9"+"x"+"3")
	assert.Equal(t, 5, m.Home.Fouls)
	assert.Equal(t, 3, m.Away.Fouls)

	decodeApply(t, d, &m, "31"+"xx"+"1"+"x"+"1")
	assert.Equal(t, 1, m.Home.Fouls)
	assert.Equal(t, 5, m.Home.PeriodFouls)
	assert.Equal(t, 3, m.Away.PeriodFouls)
}

func TestDecodeLastMinute(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()

	changed := decodeApply(t, d, &m, "36"+"2"+"4"+"7")
	assert.True(t, changed)
	assert.True(t, m.ClockRunning, "'2' carries the running bit")
	assert.InDelta(t, 24.7, m.ClockSeconds, 1e-9)
	assert.Equal(t, "0:24.7", m.ClockText)

	decodeApply(t, d, &m, "36"+"0"+"9"+"5")
	assert.False(t, m.ClockRunning)
	assert.Equal(t, "0:09.5", m.ClockText)
}

func TestDecodeShotClock(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()

	decodeApply(t, d, &m, "50"+"2"+"14")
	assert.True(t, m.ShotRunning)
	assert.Equal(t, 14, m.ShotClock)
	assert.Equal(t, 14.0, m.ShotSeconds)

	decodeApply(t, d, &m, "50"+"0"+"14")
	assert.False(t, m.ShotRunning)
}

func TestDecodeTeamNames(t *testing.T) {
	d := newTestDecoder(t)
	m := match.NewMatchState()

	decodeApply(t, d, &m, "98"+"  Bergen Elite   ")
	decodeApply(t, d, &m, "99"+"Oslo\xffKings")
	assert.Equal(t, "Bergen Elite", m.Home.Name)
	assert.Equal(t, "OsloKings", m.Away.Name)

	assert.False(t, decodeApply(t, d, &m, "98"+"Bergen Elite"), "same name is not a change")

	decodeApply(t, d, &m, "98"+"ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	assert.Equal(t, "ABCDEFGHIJKLMNOPQR", m.Home.Name, "name clipped to its byte range")

	decodeApply(t, d, &m, "99")
	assert.Equal(t, "", m.Away.Name)
}

func TestDecodeLatin1Names(t *testing.T) {
	names, err := NewNameDecoder("latin1")
	require.NoError(t, err)
	d := NewDecoder(names)
	m := match.NewMatchState()

	decodeApply(t, d, &m, "98"+"Fr\xf8ya")
	assert.Equal(t, "Frøya", m.Home.Name)
}

func TestDecodeIgnoresUnknownAndUndersized(t *testing.T) {
	d := newTestDecoder(t)
	for _, payload := range []string{
		"",
		"1",
		"42abcdefghij",
		"18x",
		"1812345",
		"30123456",
		"31xx1x",
		"36x1",
		"50x1",
	} {
		_, ok := d.Decode([]byte(payload))
		assert.False(t, ok, "payload %q", payload)
	}
}

func TestMessageIDs(t *testing.T) {
	assert.Equal(t, IDMainClock, MainClock{}.ID())
	assert.Equal(t, IDHomeName, TeamName{Side: match.SideHome}.ID())
	assert.Equal(t, IDAwayName, TeamName{Side: match.SideAway}.ID())
}

func TestNewNameDecoderRejectsUnknownCharset(t *testing.T) {
	names, err := NewNameDecoder("ebcdic")
	assert.Error(t, err)
	assert.Equal(t, CharsetUTF8, names.Charset())

	names, err = NewNameDecoder("cp1252")
	require.NoError(t, err)
	assert.Equal(t, CharsetWindows1252, names.Charset())
}

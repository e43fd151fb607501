package protocol

import "github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"

// Message identifiers handled by the gateway.
const (
	IDMainClock  = 18
	IDScores     = 30
	IDFouls      = 31
	IDLastMinute = 36
	IDShotClock  = 50
	IDHomeName   = 98
	IDAwayName   = 99
)

// Message is a decoded protocol message that can be applied to match state.
type Message interface {
	ID() int
	// Apply mutates m and reports whether anything changed.
	Apply(m *match.MatchState) bool
}

// MainClock carries the game clock, timeouts and period (id 18).
type MainClock struct {
	Running      bool
	Minutes      int
	Seconds      int
	HasTimeouts  bool
	HomeTimeouts int
	AwayTimeouts int
	Period       int
}

func (MainClock) ID() int { return IDMainClock }

func (c MainClock) Apply(m *match.MatchState) bool {
	before := *m
	m.SetClock(float64(c.Minutes*60+c.Seconds), c.Running)
	if c.HasTimeouts {
		m.Home.Timeouts = c.HomeTimeouts
		m.Away.Timeouts = c.AwayTimeouts
	}
	m.SetPeriod(c.Period)
	return *m != before
}

// Scores carries the raw digit slots of both scores (id 30).
type Scores struct {
	Home [3]int
	Away [3]int
}

func (Scores) ID() int { return IDScores }

func (s Scores) Apply(m *match.MatchState) bool {
	before := *m
	m.Home.Score = ResolveScore(s.Home[0], s.Home[1], s.Home[2], m.Home.Score, true)
	m.Away.Score = ResolveScore(s.Away[0], s.Away[1], s.Away[2], m.Away.Score, true)
	return *m != before
}

// Fouls carries both team foul digits (id 31).
type Fouls struct {
	Home int
	Away int
}

func (Fouls) ID() int { return IDFouls }

func (f Fouls) Apply(m *match.MatchState) bool {
	before := *m
	m.Home.SetFouls(f.Home)
	m.Away.SetFouls(f.Away)
	return *m != before
}

// LastMinute carries the sub-minute game clock with tenths (id 36).
type LastMinute struct {
	Running bool
	Seconds int
	Tenths  int
}

func (LastMinute) ID() int { return IDLastMinute }

func (l LastMinute) Apply(m *match.MatchState) bool {
	before := *m
	m.SetClock(float64(l.Seconds)+float64(l.Tenths)/10.0, l.Running)
	return *m != before
}

// ShotClock carries the shot clock (id 50).
type ShotClock struct {
	Running bool
	Seconds int
}

func (ShotClock) ID() int { return IDShotClock }

func (s ShotClock) Apply(m *match.MatchState) bool {
	before := *m
	m.SetShotClock(float64(s.Seconds), s.Running)
	return *m != before
}

// TeamName carries a team name (ids 98 and 99).
type TeamName struct {
	Side match.Side
	Name string
}

func (n TeamName) ID() int {
	if n.Side == match.SideAway {
		return IDAwayName
	}
	return IDHomeName
}

func (n TeamName) Apply(m *match.MatchState) bool {
	team := m.Team(n.Side)
	if team.Name == n.Name {
		return false
	}
	team.Name = n.Name
	return true
}

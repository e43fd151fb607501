package match

// Side identifies one of the two teams on the scoreboard.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

const (
	// MaxFouls is the highest team foul count the board displays.
	MaxFouls = 5

	defaultClockSeconds = 600.0
	defaultShotSeconds  = 24.0
)

// TeamState captures one team's side of the board.
type TeamState struct {
	Name        string `json:"name"`
	Score       int    `json:"score"`
	Fouls       int    `json:"fouls"`
	PeriodFouls int    `json:"periodFouls"`
	Timeouts    int    `json:"timeouts"`
}

// MatchState is the full decoded state of the scoreboard.
// ClockText and ShotClock are display values derived from ClockSeconds and ShotSeconds.
type MatchState struct {
	Home         TeamState `json:"home"`
	Away         TeamState `json:"away"`
	Period       int       `json:"period"`
	ClockText    string    `json:"clock"`
	ClockSeconds float64   `json:"clockSeconds"`
	ClockRunning bool      `json:"clockRunning"`
	ShotClock    int       `json:"shotClock"`
	ShotSeconds  float64   `json:"shotSeconds"`
	ShotRunning  bool      `json:"shotRunning"`
}

// NewMatchState returns the state the board shows before any telemetry arrives.
func NewMatchState() MatchState {
	return MatchState{
		Period:       1,
		ClockText:    FormatClock(defaultClockSeconds),
		ClockSeconds: defaultClockSeconds,
		ShotClock:    FormatShot(defaultShotSeconds),
		ShotSeconds:  defaultShotSeconds,
	}
}

// Team returns a pointer to the requested side's state.
func (m *MatchState) Team(side Side) *TeamState {
	if side == SideAway {
		return &m.Away
	}
	return &m.Home
}

// SetPeriod stores a new period, resetting both teams' period fouls when it changes.
// Non-positive values are ignored.
func (m *MatchState) SetPeriod(period int) {
	if period <= 0 {
		return
	}
	if period != m.Period {
		m.Home.PeriodFouls = 0
		m.Away.PeriodFouls = 0
	}
	m.Period = period
}

// SetFouls clamps the count to the displayable range and tracks the period maximum.
func (t *TeamState) SetFouls(fouls int) {
	t.Fouls = ClampFouls(fouls)
	if t.Fouls > t.PeriodFouls {
		t.PeriodFouls = t.Fouls
	}
}

// ClampFouls bounds a raw foul count to [0, MaxFouls].
func ClampFouls(fouls int) int {
	if fouls < 0 {
		return 0
	}
	if fouls > MaxFouls {
		return MaxFouls
	}
	return fouls
}

// Overrides holds operator-supplied team names that may replace the protocol names.
type Overrides struct {
	HomeName       string `json:"homeName" yaml:"home_name"`
	AwayName       string `json:"awayName" yaml:"away_name"`
	ForceTeamNames bool   `json:"forceTeamNames" yaml:"force_team_names"`
}

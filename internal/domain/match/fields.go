package match

import (
	"strconv"
	"strings"
)

// Field names one value of the flattened consumer view.
type Field string

const (
	FieldHomeName  Field = "home_name"
	FieldAwayName  Field = "away_name"
	FieldHomeScore Field = "home_score"
	FieldAwayScore Field = "away_score"
	FieldPeriod    Field = "period"
	FieldGameClock Field = "game_clock"
	FieldShotClock Field = "shot_clock"
)

// AllFields lists every field in publish order.
var AllFields = []Field{
	FieldHomeName,
	FieldAwayName,
	FieldHomeScore,
	FieldAwayScore,
	FieldPeriod,
	FieldGameClock,
	FieldShotClock,
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	for _, known := range AllFields {
		if f == known {
			return true
		}
	}
	return false
}

// Fields is the flattened consumer view of a match.
type Fields map[Field]string

// Flatten builds the consumer field map, substituting override team names when forced
// and at least one override name is set.
func Flatten(m MatchState, ov Overrides) Fields {
	homeName, awayName := m.Home.Name, m.Away.Name
	oh, oa := strings.TrimSpace(ov.HomeName), strings.TrimSpace(ov.AwayName)
	if ov.ForceTeamNames && (oh != "" || oa != "") {
		if oh != "" {
			homeName = oh
		}
		if oa != "" {
			awayName = oa
		}
	}

	return Fields{
		FieldHomeName:  homeName,
		FieldAwayName:  awayName,
		FieldHomeScore: strconv.Itoa(m.Home.Score),
		FieldAwayScore: strconv.Itoa(m.Away.Score),
		FieldPeriod:    PeriodLabel(m.Period),
		FieldGameClock: m.ClockText,
		FieldShotClock: strconv.Itoa(m.ShotClock),
	}
}

// PeriodLabel renders a period as ordinal text; unmapped periods become P{N}.
func PeriodLabel(period int) string {
	switch period {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	case 4:
		return "4th"
	default:
		return "P" + strconv.Itoa(period)
	}
}

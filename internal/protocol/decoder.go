package protocol

import "github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"

// runningBit marks a running clock in status bytes.
const runningBit = 0x02

// Minimum payload lengths per message id.
const (
	minMainClock     = 8
	mainClockTimeout = 10
	minScores        = 9
	minFouls         = 7
	minLastMinute    = 5
	minShotClock     = 5

	periodOffset         = 12
	periodFallbackOffset = 13
)

// Decoder maps frame payloads to messages.
type Decoder struct {
	names NameDecoder
}

// NewDecoder constructs a Decoder using names for team name fields.
func NewDecoder(names NameDecoder) *Decoder {
	return &Decoder{names: names}
}

// Decode parses a payload. It returns false for unknown ids and payloads too short for
// their id; those are expected and not errors.
func (d *Decoder) Decode(payload []byte) (Message, bool) {
	id, ok := MessageID(payload)
	if !ok {
		return nil, false
	}

	switch id {
	case IDMainClock:
		return decodeMainClock(payload)
	case IDScores:
		if len(payload) < minScores {
			return nil, false
		}
		return Scores{
			Home: [3]int{Digit(payload[3]), Digit(payload[4]), Digit(payload[5])},
			Away: [3]int{Digit(payload[6]), Digit(payload[7]), Digit(payload[8])},
		}, true
	case IDFouls:
		if len(payload) < minFouls {
			return nil, false
		}
		return Fouls{Home: Digit(payload[4]), Away: Digit(payload[6])}, true
	case IDLastMinute:
		if len(payload) < minLastMinute {
			return nil, false
		}
		// The status byte doubles as the tens-of-seconds slot.
		return LastMinute{
			Running: running(payload[2]),
			Seconds: digits2(payload[2], payload[3]),
			Tenths:  Digit(payload[4]),
		}, true
	case IDShotClock:
		if len(payload) < minShotClock {
			return nil, false
		}
		return ShotClock{
			Running: running(payload[2]),
			Seconds: digits2(payload[3], payload[4]),
		}, true
	case IDHomeName:
		return TeamName{Side: match.SideHome, Name: d.names.Decode(nameBytes(payload))}, true
	case IDAwayName:
		return TeamName{Side: match.SideAway, Name: d.names.Decode(nameBytes(payload))}, true
	default:
		return nil, false
	}
}

func decodeMainClock(payload []byte) (Message, bool) {
	if len(payload) < minMainClock {
		return nil, false
	}
	msg := MainClock{
		Running: running(payload[2]),
		Minutes: digits2(payload[4], payload[5]),
		Seconds: digits2(payload[6], payload[7]),
	}
	if len(payload) >= mainClockTimeout {
		msg.HasTimeouts = true
		msg.HomeTimeouts = Digit(payload[8])
		msg.AwayTimeouts = Digit(payload[9])
	}
	if len(payload) > periodOffset {
		msg.Period = Digit(payload[periodOffset])
	}
	if msg.Period == 0 && len(payload) > periodFallbackOffset {
		msg.Period = Digit(payload[periodFallbackOffset])
	}
	return msg, true
}

func running(status byte) bool {
	return status&runningBit != 0
}

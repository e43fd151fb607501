package publish

import (
	"testing"
	"time"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
)

func TestNewSnapshotFlattensWithOverrides(t *testing.T) {
	state := match.NewMatchState()
	state.Home.Name = "HOME"
	state.Away.Name = "AWAY"
	state.Home.Score = 12

	at := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	snap := NewSnapshot(4, at, state, match.Overrides{HomeName: "Lions", ForceTeamNames: true})

	if snap.Seq != 4 || !snap.At.Equal(at) {
		t.Fatalf("unexpected snapshot header %+v", snap)
	}
	if snap.Fields[match.FieldHomeName] != "Lions" || snap.Fields[match.FieldAwayName] != "AWAY" {
		t.Fatalf("unexpected names %v", snap.Fields)
	}
	if snap.Fields[match.FieldHomeScore] != "12" || snap.Fields[match.FieldGameClock] != "10:00" {
		t.Fatalf("unexpected fields %v", snap.Fields)
	}
	if snap.Match.Home.Name != "HOME" {
		t.Fatalf("expected raw match state preserved")
	}
}

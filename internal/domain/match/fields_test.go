package match

import "testing"

func TestFlattenUsesProtocolNamesByDefault(t *testing.T) {
	m := NewMatchState()
	m.Home.Name = "Bergen"
	m.Away.Name = "Oslo"
	m.Home.Score = 54
	m.Away.Score = 49
	m.Period = 3
	m.SetClock(465, false)
	m.SetShotClock(14, false)

	got := Flatten(m, Overrides{HomeName: "Ignored", ForceTeamNames: false})
	want := Fields{
		FieldHomeName:  "Bergen",
		FieldAwayName:  "Oslo",
		FieldHomeScore: "54",
		FieldAwayScore: "49",
		FieldPeriod:    "3rd",
		FieldGameClock: "07:45",
		FieldShotClock: "14",
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("field %s: expected %q, got %q", k, v, got[k])
		}
	}
	if len(got) != len(AllFields) {
		t.Fatalf("expected %d fields, got %d", len(AllFields), len(got))
	}
}

func TestFlattenOverrides(t *testing.T) {
	m := NewMatchState()
	m.Home.Name = "HOME"
	m.Away.Name = "AWAY"

	cases := []struct {
		name     string
		ov       Overrides
		wantHome string
		wantAway string
	}{
		{"forced both", Overrides{HomeName: "Frøya", AwayName: "Ulriken", ForceTeamNames: true}, "Frøya", "Ulriken"},
		{"forced one side", Overrides{HomeName: "  Frøya ", ForceTeamNames: true}, "Frøya", "AWAY"},
		{"forced but blank", Overrides{HomeName: "   ", AwayName: "", ForceTeamNames: true}, "HOME", "AWAY"},
		{"not forced", Overrides{HomeName: "Frøya", AwayName: "Ulriken"}, "HOME", "AWAY"},
	}
	for _, tc := range cases {
		got := Flatten(m, tc.ov)
		if got[FieldHomeName] != tc.wantHome || got[FieldAwayName] != tc.wantAway {
			t.Fatalf("%s: expected %q/%q, got %q/%q", tc.name, tc.wantHome, tc.wantAway, got[FieldHomeName], got[FieldAwayName])
		}
	}
}

func TestPeriodLabel(t *testing.T) {
	cases := map[int]string{1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 5: "P5", 9: "P9", 0: "P0"}
	for period, want := range cases {
		if got := PeriodLabel(period); got != want {
			t.Fatalf("period %d: expected %q, got %q", period, want, got)
		}
	}
}

func TestFieldValid(t *testing.T) {
	for _, f := range AllFields {
		if !f.Valid() {
			t.Fatalf("expected %s to be valid", f)
		}
	}
	if Field("home_logo").Valid() {
		t.Fatalf("expected unknown field to be invalid")
	}
}

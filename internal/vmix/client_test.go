package vmix

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-gateway/internal/publish"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type recordedCall struct {
	Function     string
	Input        string
	SelectedName string
	Value        string
}

type fakeMixer struct {
	mu     sync.Mutex
	calls  []recordedCall
	status int
	failOn string
}

func (m *fakeMixer) transport() http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		call := recordedCall{
			Function:     q.Get("Function"),
			Input:        q.Get("Input"),
			SelectedName: q.Get("SelectedName"),
			Value:        q.Get("Value"),
		}
		m.mu.Lock()
		m.calls = append(m.calls, call)
		status := m.status
		if m.failOn != "" && call.SelectedName == m.failOn {
			status = http.StatusInternalServerError
		}
		m.mu.Unlock()
		if status == 0 {
			status = http.StatusOK
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader("mixer says no")),
			Header:     make(http.Header),
		}, nil
	})
}

func (m *fakeMixer) take() []recordedCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.calls
	m.calls = nil
	return out
}

func testFields() map[match.Field]string {
	return map[match.Field]string{
		match.FieldHomeName:  "A_TEAM_NAME.Text",
		match.FieldAwayName:  "B_TEAM_NAME.Text",
		match.FieldHomeScore: "A_SCORE.Text",
		match.FieldAwayScore: "B_SCORE.Text",
		match.FieldPeriod:    "QUARTER1.Text",
		match.FieldGameClock: "TIME.Text",
		match.FieldShotClock: "SHOTCLOCK.Text",
	}
}

func testFouls() FoulImages {
	return FoulImages{
		BasePath:         "/srv/fouls",
		HomeSelectedName: "A_FAULS.Source",
		AwaySelectedName: "B_FAULS.Source",
		HomeFiles:        []string{"0.png", "a1.png", "a2.png", "a3.png", "a4.png", "a5.png"},
		AwayFiles:        []string{"0.png", "b1.png", "b2.png", "b3.png", "b4.png", "b5.png"},
	}
}

func newTestClient(m *fakeMixer) *Client {
	return NewClient(Config{
		Host:       "mixer.local",
		Port:       "8088",
		Input:      "17",
		Fields:     testFields(),
		Fouls:      testFouls(),
		HTTPClient: &http.Client{Transport: m.transport()},
	})
}

func snapshotOf(m match.MatchState) publish.Snapshot {
	return publish.NewSnapshot(1, time.Now(), m, match.Overrides{})
}

func TestPublishSendsEveryFieldThenOnlyChanges(t *testing.T) {
	mixer := &fakeMixer{}
	c := newTestClient(mixer)

	state := match.NewMatchState()
	state.Home.Name = "HOME"
	state.Away.Name = "AWAY"
	if err := c.Publish(context.Background(), snapshotOf(state)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	calls := mixer.take()
	if len(calls) != len(match.AllFields)+2 {
		t.Fatalf("expected %d calls on first publish, got %d", len(match.AllFields)+2, len(calls))
	}
	first := calls[0]
	if first.Function != "SetText" || first.Input != "17" || first.SelectedName != "A_TEAM_NAME.Text" || first.Value != "HOME" {
		t.Fatalf("unexpected first call %+v", first)
	}
	images := calls[len(calls)-2:]
	if images[0].Function != "SetImage" || images[0].SelectedName != "A_FAULS.Source" || images[0].Value != "/srv/fouls/0.png" {
		t.Fatalf("unexpected home foul image call %+v", images[0])
	}

	state.Home.Score = 2
	state.Away.SetFouls(3)
	if err := c.Publish(context.Background(), snapshotOf(state)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	calls = mixer.take()
	if len(calls) != 2 {
		t.Fatalf("expected score and foul image only, got %+v", calls)
	}
	if calls[0].SelectedName != "A_SCORE.Text" || calls[0].Value != "2" {
		t.Fatalf("unexpected score call %+v", calls[0])
	}
	if calls[1].SelectedName != "B_FAULS.Source" || calls[1].Value != "/srv/fouls/b3.png" {
		t.Fatalf("unexpected foul call %+v", calls[1])
	}

	if err := c.Publish(context.Background(), snapshotOf(state)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if calls = mixer.take(); len(calls) != 0 {
		t.Fatalf("expected no calls for identical snapshot, got %+v", calls)
	}
}

func TestPublishRetriesFieldsThatFailed(t *testing.T) {
	mixer := &fakeMixer{failOn: "TIME.Text"}
	c := newTestClient(mixer)
	state := match.NewMatchState()

	err := c.Publish(context.Background(), snapshotOf(state))
	statusErr, ok := AsStatusError(err)
	if !ok {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusInternalServerError || statusErr.SelectedName != "TIME.Text" || statusErr.Body != "mixer says no" {
		t.Fatalf("unexpected status error %+v", statusErr)
	}
	mixer.take()

	mixer.mu.Lock()
	mixer.failOn = ""
	mixer.mu.Unlock()
	if err := c.Publish(context.Background(), snapshotOf(state)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	calls := mixer.take()
	if len(calls) != 1 || calls[0].SelectedName != "TIME.Text" {
		t.Fatalf("expected only the failed field to be resent, got %+v", calls)
	}
}

func TestPublishSkipsUnmappedFields(t *testing.T) {
	mixer := &fakeMixer{}
	c := NewClient(Config{
		Host:       "mixer.local",
		Input:      "1",
		Fields:     map[match.Field]string{match.FieldGameClock: "TIME.Text", match.FieldShotClock: ""},
		HTTPClient: &http.Client{Transport: mixer.transport()},
	})
	if err := c.Publish(context.Background(), snapshotOf(match.NewMatchState())); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	calls := mixer.take()
	if len(calls) != 1 || calls[0].SelectedName != "TIME.Text" || calls[0].Value != "10:00" {
		t.Fatalf("expected only the clock, got %+v", calls)
	}
}

func TestResetFoulsAlwaysSends(t *testing.T) {
	mixer := &fakeMixer{}
	c := newTestClient(mixer)
	for i := 0; i < 2; i++ {
		if err := c.ResetFouls(context.Background()); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
	}
	calls := mixer.take()
	if len(calls) != 4 {
		t.Fatalf("expected 4 image calls, got %d", len(calls))
	}
	for _, call := range calls {
		if call.Function != "SetImage" || !strings.HasSuffix(call.Value, "0.png") {
			t.Fatalf("unexpected reset call %+v", call)
		}
	}
}

func TestClientHitsMixerOverHTTP(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/" {
			t.Errorf("expected /api/ path, got %s", r.URL.Path)
		}
		got = append(got, r.URL.RawQuery)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	host, port := strings.TrimPrefix(srv.URL, "http://"), ""
	c := NewClient(Config{Host: host, Port: port, Input: "17", Timeout: time.Second})
	if err := c.SetText(context.Background(), "TIME.Text", "0:09.5"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := c.SetImage(context.Background(), "A_FAULS.Source", `D:\fouls\a1.png`); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(got))
	}
	if got[0] != "Function=SetText&Input=17&SelectedName=TIME.Text&Value=0%3A09.5" {
		t.Fatalf("unexpected query %s", got[0])
	}
	if !strings.HasPrefix(got[1], "Function=SetImage&") {
		t.Fatalf("unexpected query %s", got[1])
	}
}

func TestCallWrapsTransportErrors(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewClient(Config{
		Host: "mixer.local",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, boom
		})},
	})
	err := c.SetText(context.Background(), "TIME.Text", "1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	if _, ok := AsStatusError(err); ok {
		t.Fatalf("transport error should not be a StatusError")
	}
	if c.Name() != SinkName {
		t.Fatalf("unexpected sink name %s", c.Name())
	}
}

func TestResolveHTTPClientDefaults(t *testing.T) {
	doer := resolveHTTPClient(nil, 0)
	hc, ok := doer.(*http.Client)
	if !ok || hc.Timeout != defaultTimeout {
		t.Fatalf("expected default client with %s timeout, got %+v", defaultTimeout, doer)
	}
	if baseURL("h", "") != "http://h" || baseURL("h", "1") != "http://h:1" {
		t.Fatalf("unexpected base urls")
	}
}

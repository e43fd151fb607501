package vmix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
	"github.com/preston-bernstein/scoreboard-gateway/internal/logging"
	"github.com/preston-bernstein/scoreboard-gateway/internal/publish"
)

// SinkName identifies the vMix sink in logs and metrics.
const SinkName = "vmix"

const (
	functionSetText  = "SetText"
	functionSetImage = "SetImage"
)

// Config controls how the client reaches the mixer and which title fields it drives.
type Config struct {
	Host       string
	Port       string
	Input      string
	Timeout    time.Duration
	Fields     map[match.Field]string
	Fouls      FoulImages
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client pushes snapshots to a vMix title input. Values are only sent when they differ from
// the last value the mixer accepted.
type Client struct {
	baseURL    string
	input      string
	fields     map[match.Field]string
	fouls      FoulImages
	httpClient httpDoer
	logger     *slog.Logger

	mu        sync.Mutex
	lastText  map[match.Field]string
	lastFouls map[match.Side]int
}

// NewClient constructs a vMix client with the provided configuration.
func NewClient(cfg Config) *Client {
	fields := make(map[match.Field]string, len(cfg.Fields))
	for k, v := range cfg.Fields {
		fields[k] = v
	}
	return &Client{
		baseURL:    baseURL(cfg.Host, cfg.Port),
		input:      cfg.Input,
		fields:     fields,
		fouls:      cfg.Fouls,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger:     cfg.Logger,
		lastText:   make(map[match.Field]string),
		lastFouls:  make(map[match.Side]int),
	}
}

func (c *Client) Name() string { return SinkName }

// Publish sends every changed text field and foul image. A failed call does not stop the
// remaining ones; all failures are joined into the returned error.
func (c *Client) Publish(ctx context.Context, snap publish.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, field := range match.AllFields {
		selected := c.fields[field]
		if selected == "" {
			continue
		}
		value := snap.Fields[field]
		if last, ok := c.lastText[field]; ok && last == value {
			continue
		}
		logging.Debug(c.logger, "vmix set text", "field", string(field), "selected_name", selected, "value", value)
		if err := c.call(ctx, functionSetText, selected, value); err != nil {
			errs = append(errs, err)
			continue
		}
		c.lastText[field] = value
	}

	for _, side := range []match.Side{match.SideHome, match.SideAway} {
		if err := c.pushFoulsLocked(ctx, side, snap.Match.Team(side).Fouls, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResetFouls shows the zero-foul image on both sides regardless of what was last sent.
func (c *Client) ResetFouls(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return errors.Join(
		c.pushFoulsLocked(ctx, match.SideHome, 0, true),
		c.pushFoulsLocked(ctx, match.SideAway, 0, true),
	)
}

func (c *Client) pushFoulsLocked(ctx context.Context, side match.Side, fouls int, force bool) error {
	fouls = match.ClampFouls(fouls)
	if last, ok := c.lastFouls[side]; ok && last == fouls && !force {
		return nil
	}
	selected, path, ok := c.fouls.Select(side, fouls)
	if !ok {
		return nil
	}
	logging.Debug(c.logger, "vmix set image", logging.FieldSide, string(side), "fouls", fouls, "value", path)
	if err := c.call(ctx, functionSetImage, selected, path); err != nil {
		return err
	}
	c.lastFouls[side] = fouls
	return nil
}

// SetText sets one text field of the title input.
func (c *Client) SetText(ctx context.Context, selectedName, value string) error {
	return c.call(ctx, functionSetText, selectedName, value)
}

// SetImage points one image field of the title input at a file.
func (c *Client) SetImage(ctx context.Context, selectedName, path string) error {
	return c.call(ctx, functionSetImage, selectedName, path)
}

func (c *Client) call(ctx context.Context, function, selectedName, value string) error {
	req, err := c.buildRequest(ctx, function, selectedName, value)
	if err != nil {
		return fmt.Errorf("vmix: build %s request: %w", function, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vmix: %s %s: %w", function, selectedName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Function:     function,
			SelectedName: selectedName,
			StatusCode:   resp.StatusCode,
			Body:         strings.TrimSpace(string(body)),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) buildRequest(ctx context.Context, function, selectedName, value string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/", nil)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("Function", function)
	q.Set("Input", c.input)
	q.Set("SelectedName", selectedName)
	q.Set("Value", value)
	req.URL.RawQuery = q.Encode()
	return req, nil
}

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
)

// ErrUnknownField is returned when a gateway file maps a field this gateway does not publish.
var ErrUnknownField = errors.New("unknown field")

// ErrFoulFiles is returned when a foul image list does not cover 0..5 fouls.
var ErrFoulFiles = errors.New("foul image list must have one entry per count 0..5")

type gatewayFile struct {
	VMix struct {
		Host    string            `yaml:"host"`
		Port    string            `yaml:"port"`
		Input   string            `yaml:"input"`
		Timeout string            `yaml:"timeout"`
		Fields  map[string]string `yaml:"fields"`
		Fouls   struct {
			BasePath         string   `yaml:"base_path"`
			HomeSelectedName string   `yaml:"home_selected_name"`
			AwaySelectedName string   `yaml:"away_selected_name"`
			HomeFiles        []string `yaml:"home_files"`
			AwayFiles        []string `yaml:"away_files"`
		} `yaml:"fouls"`
	} `yaml:"vmix"`
}

// ApplyGatewayFile layers the YAML gateway file at path over cfg. Values present in the file
// replace the environment-derived ones; mapping a field to "" disables it.
func ApplyGatewayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("gateway config %s: %w", path, err)
	}
	if err := applyGateway(cfg, data); err != nil {
		return fmt.Errorf("gateway config %s: %w", path, err)
	}
	return nil
}

func applyGateway(cfg *Config, data []byte) error {
	var file gatewayFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	v := file.VMix
	setIfNotEmpty(&cfg.VMix.Host, v.Host)
	setIfNotEmpty(&cfg.VMix.Port, v.Port)
	setIfNotEmpty(&cfg.VMix.Input, v.Input)
	if v.Timeout != "" {
		d, err := parsePositiveDuration(v.Timeout)
		if err != nil {
			return fmt.Errorf("vmix.timeout: %w", err)
		}
		cfg.VMix.Timeout = d
	}

	if cfg.VMix.Fields == nil {
		cfg.VMix.Fields = make(map[match.Field]string)
	}
	for key, selected := range v.Fields {
		field := match.Field(key)
		if !field.Valid() {
			return fmt.Errorf("vmix.fields: %w %q", ErrUnknownField, key)
		}
		cfg.VMix.Fields[field] = selected
	}

	f := v.Fouls
	setIfNotEmpty(&cfg.VMix.Fouls.BasePath, f.BasePath)
	setIfNotEmpty(&cfg.VMix.Fouls.HomeSelectedName, f.HomeSelectedName)
	setIfNotEmpty(&cfg.VMix.Fouls.AwaySelectedName, f.AwaySelectedName)
	if f.HomeFiles != nil {
		if len(f.HomeFiles) != match.MaxFouls+1 {
			return fmt.Errorf("vmix.fouls.home_files: %w", ErrFoulFiles)
		}
		cfg.VMix.Fouls.HomeFiles = f.HomeFiles
	}
	if f.AwayFiles != nil {
		if len(f.AwayFiles) != match.MaxFouls+1 {
			return fmt.Errorf("vmix.fouls.away_files: %w", ErrFoulFiles)
		}
		cfg.VMix.Fouls.AwayFiles = f.AwayFiles
	}
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

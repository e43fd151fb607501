package config

import (
	"strconv"

	"github.com/preston-bernstein/scoreboard-gateway/internal/domain/match"
)

// VMixConfig controls the video mixer sink.
type VMixConfig struct {
	Enabled bool
	Host    string
	Port    string
	Input   string
	Timeout Duration
	Fields  map[match.Field]string
	Fouls   FoulConfig
}

// FoulConfig names the foul image inputs and the image per foul count (index 0..5).
type FoulConfig struct {
	BasePath         string
	HomeSelectedName string
	AwaySelectedName string
	HomeFiles        []string
	AwayFiles        []string
}

// DefaultFoulFiles returns the image file names for 0..5 fouls on one side.
func DefaultFoulFiles(prefix string) []string {
	files := []string{"0.png"}
	for i := 1; i <= match.MaxFouls; i++ {
		files = append(files, prefix+strconv.Itoa(i)+".png")
	}
	return files
}

func loadVMix() VMixConfig {
	return VMixConfig{
		Enabled: boolEnvOrDefault(envVMixEnabled, defaultVMixEnabled),
		Host:    envOrDefault(envVMixHost, defaultVMixHost),
		Port:    envOrDefault(envVMixPort, defaultVMixPort),
		Input:   envOrDefault(envVMixInput, defaultVMixInput),
		Timeout: durationEnvOrDefault(envVMixTimeout, defaultVMixTimeout),
		Fields:  DefaultFields(),
		Fouls: FoulConfig{
			BasePath:         envOrDefault(envFoulsBasePath, ""),
			HomeSelectedName: defaultHomeFoulSelectedName,
			AwaySelectedName: defaultAwayFoulSelectedName,
			HomeFiles:        DefaultFoulFiles("a"),
			AwayFiles:        DefaultFoulFiles("b"),
		},
	}
}

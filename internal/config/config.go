package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Matching MatchingConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	APIKey      string   // X-API-Key value; empty disables authentication
	CORSOrigins []string // allowed origins, "*" allows any
}

type ProviderConfig struct {
	URL          string // base URL of the embedding service (e.g. http://localhost:5000)
	EmbeddingDim int    // provider's embedding dimensionality (default 128)
	MaxImageSize int    // longest image edge in pixels before uploads get downscaled
}

// MatchingConfig carries the per-endpoint default match cutoffs, loaded
// from the embedded defaults file and overridable via environment.
// Recognize uses the confidence-threshold convention, the rest use the
// distance-tolerance convention; see defaults.yaml for why they differ.
type MatchingConfig struct {
	Cutoffs CutoffDefaults `yaml:"cutoffs"`
}

type CutoffDefaults struct {
	RecognizeThreshold  float64 `yaml:"recognize_threshold"`
	MatchTolerance      float64 `yaml:"match_tolerance"`
	AttendanceTolerance float64 `yaml:"attendance_tolerance"`
	CompareTolerance    float64 `yaml:"compare_tolerance"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

// envString reads an environment variable with a default.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList reads a comma-separated environment variable.
func envList(key string, defaultVal []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}

func Load() *Config {
	var matching MatchingConfig
	if err := yaml.Unmarshal(defaultsYAML, &matching); err != nil {
		// This is an embedded file, so this should never happen in practice.
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}

	matching.Cutoffs.RecognizeThreshold = envFloat("RECOGNIZE_THRESHOLD", matching.Cutoffs.RecognizeThreshold)
	matching.Cutoffs.MatchTolerance = envFloat("MATCH_TOLERANCE", matching.Cutoffs.MatchTolerance)
	matching.Cutoffs.AttendanceTolerance = envFloat("ATTENDANCE_TOLERANCE", matching.Cutoffs.AttendanceTolerance)
	matching.Cutoffs.CompareTolerance = envFloat("COMPARE_TOLERANCE", matching.Cutoffs.CompareTolerance)

	return &Config{
		Server: ServerConfig{
			Host:        envString("HOST", "0.0.0.0"),
			Port:        envInt("PORT", 8000),
			APIKey:      os.Getenv("API_KEY"),
			CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
		},
		Provider: ProviderConfig{
			URL:          os.Getenv("ML_SERVICE_URL"),
			EmbeddingDim: envInt("EMBEDDING_DIM", 128),
			MaxImageSize: envInt("MAX_IMAGE_SIZE", 4096),
		},
		Matching: matching,
	}
}

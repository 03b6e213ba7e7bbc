package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 8000 {
		t.Errorf("default port = %d, want 8000", cfg.Server.Port)
	}
	if cfg.Provider.EmbeddingDim != 128 {
		t.Errorf("default embedding dim = %d, want 128", cfg.Provider.EmbeddingDim)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("default CORS origins = %v, want [*]", cfg.Server.CORSOrigins)
	}
}

func TestLoad_EmbeddedCutoffs(t *testing.T) {
	cfg := Load()

	// The two historical defaults stay separate per endpoint.
	if cfg.Matching.Cutoffs.RecognizeThreshold != 0.75 {
		t.Errorf("recognize threshold = %v, want 0.75", cfg.Matching.Cutoffs.RecognizeThreshold)
	}
	if cfg.Matching.Cutoffs.MatchTolerance != 0.6 {
		t.Errorf("match tolerance = %v, want 0.6", cfg.Matching.Cutoffs.MatchTolerance)
	}
	if cfg.Matching.Cutoffs.AttendanceTolerance != 0.6 {
		t.Errorf("attendance tolerance = %v, want 0.6", cfg.Matching.Cutoffs.AttendanceTolerance)
	}
	if cfg.Matching.Cutoffs.CompareTolerance != 0.6 {
		t.Errorf("compare tolerance = %v, want 0.6", cfg.Matching.Cutoffs.CompareTolerance)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EMBEDDING_DIM", "512")
	t.Setenv("RECOGNIZE_THRESHOLD", "0.8")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg := Load()

	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Provider.EmbeddingDim != 512 {
		t.Errorf("embedding dim = %d, want 512", cfg.Provider.EmbeddingDim)
	}
	if cfg.Matching.Cutoffs.RecognizeThreshold != 0.8 {
		t.Errorf("recognize threshold = %v, want 0.8", cfg.Matching.Cutoffs.RecognizeThreshold)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("CORS origins = %v, want two trimmed entries", cfg.Server.CORSOrigins)
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("MATCH_TOLERANCE", "abc")

	cfg := Load()

	if cfg.Server.Port != 8000 {
		t.Errorf("invalid PORT should fall back to 8000, got %d", cfg.Server.Port)
	}
	if cfg.Matching.Cutoffs.MatchTolerance != 0.6 {
		t.Errorf("invalid MATCH_TOLERANCE should fall back to 0.6, got %v", cfg.Matching.Cutoffs.MatchTolerance)
	}
}

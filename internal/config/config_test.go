package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      int
		expected int
	}{
		{
			name:     "valid integer",
			key:      "TEST_INT",
			value:    "42",
			def:      7,
			expected: 42,
		},
		{
			name:     "invalid integer falls back to default",
			key:      "TEST_INT_INVALID",
			value:    "not_a_number",
			def:      7,
			expected: 7,
		},
		{
			name:     "missing variable falls back to default",
			key:      "TEST_INT_MISSING",
			def:      7,
			expected: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := getenvInt(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("getenvInt() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DUR",
			value:    "45s",
			def:      time.Second,
			expected: 45 * time.Second,
		},
		{
			name:     "invalid duration falls back to default",
			key:      "TEST_DUR_INVALID",
			value:    "tomorrow",
			def:      time.Second,
			expected: time.Second,
		},
		{
			name:     "missing variable falls back to default",
			key:      "TEST_DUR_MISSING",
			def:      30 * time.Second,
			expected: 30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EDUDIR_ADMIN_TOKEN", "secret")

	// Make sure optional knobs are unset so defaults apply.
	for _, key := range []string{"EDUDIR_URL_TIMEOUT", "EDUDIR_URL_DELAY", "EDUDIR_FETCH_TIMEOUT", "EXA_API_KEY", "GEMINI_API_KEY"} {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}

	cfg := Load()

	if cfg.URLTimeout != 30*time.Second {
		t.Errorf("URLTimeout = %v, want 30s", cfg.URLTimeout)
	}
	if cfg.URLDelay != time.Second {
		t.Errorf("URLDelay = %v, want 1s", cfg.URLDelay)
	}
	if cfg.FetchTimeout != 20*time.Second {
		t.Errorf("FetchTimeout = %v, want 20s", cfg.FetchTimeout)
	}
	if cfg.EnrichmentEnabled() {
		t.Errorf("EnrichmentEnabled() = true without API keys")
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() AppConfig {
	return AppConfig{
		DBURL:        "postgres://localhost/careclinic",
		RedisAddress: "redis://localhost:6379/0",
		BearerToken:  "ops-token",
		SymmetricKey: strings.Repeat("k", 32),
		SessionTTL:   time.Hour,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*AppConfig)
		want   string
	}{
		{"valid", func(*AppConfig) {}, ""},
		{"no database", func(c *AppConfig) { c.DBURL = "" }, "DB_URL"},
		{"no redis", func(c *AppConfig) { c.RedisAddress = "" }, "REDIS_URL"},
		{"no bearer token", func(c *AppConfig) { c.BearerToken = "" }, "BEARER_TOKEN"},
		{"short key", func(c *AppConfig) { c.SymmetricKey = "abc" }, "SYMMETRIC_KEY"},
		{"zero ttl", func(c *AppConfig) { c.SessionTTL = 0 }, "SESSION_TTL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Expected no error, got: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected an error mentioning %s, got: %v", tt.want, err)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CC_INT", "12")
	t.Setenv("CC_BAD_INT", "twelve")
	t.Setenv("CC_FLOAT", "2.5")
	t.Setenv("CC_DURATION", "90s")
	t.Setenv("CC_EMPTY", "")

	if got := GetEnvAsInt("CC_INT", 1); got != 12 {
		t.Errorf("Expected 12, got %d", got)
	}
	if got := GetEnvAsInt("CC_BAD_INT", 1); got != 1 {
		t.Errorf("Expected the default for a bad integer, got %d", got)
	}
	if got := GetEnvAsFloat("CC_FLOAT", 1); got != 2.5 {
		t.Errorf("Expected 2.5, got %v", got)
	}
	if got := GetEnvAsDuration("CC_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("Expected 90s, got %v", got)
	}
	if got := GetEnv("CC_EMPTY", "fallback"); got != "fallback" {
		t.Errorf("Expected the default for an empty value, got %q", got)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" http://a.test , ,http://b.test")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("Expected two trimmed origins, got %v", got)
	}
}

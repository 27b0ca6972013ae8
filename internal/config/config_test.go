package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GatewayPort != 8000 {
		t.Errorf("GatewayPort = %d, want 8000", cfg.GatewayPort)
	}
	if cfg.FeedPort != 8082 {
		t.Errorf("FeedPort = %d, want 8082", cfg.FeedPort)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %s, want 5s", cfg.PollInterval)
	}
	if cfg.FetchLimit != 1000 {
		t.Errorf("FetchLimit = %d, want 1000", cfg.FetchLimit)
	}
	if cfg.RAGAnswerURL != "http://localhost:8081/v2/answer" {
		t.Errorf("RAGAnswerURL = %q", cfg.RAGAnswerURL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GATEWAY_PORT", "9000")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GatewayPort != 9000 {
		t.Errorf("GatewayPort = %d, want 9000", cfg.GatewayPort)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Errorf("PollInterval = %s, want 30s", cfg.PollInterval)
	}
	if cfg.SupabaseURL != "https://example.supabase.co" {
		t.Errorf("SupabaseURL = %q", cfg.SupabaseURL)
	}
	if cfg.SupabaseKey != "anon" {
		t.Errorf("SupabaseKey = %q", cfg.SupabaseKey)
	}
}

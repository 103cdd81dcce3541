package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/adolbicare/clinic/internal/config"
	"github.com/adolbicare/clinic/internal/domain/eia"
)

func TestNewContextStore_Memory(t *testing.T) {
	for _, kind := range []string{"", "memory"} {
		store, checks, err := newContextStore(&config.Config{SessionStore: kind})
		if err != nil {
			t.Fatalf("newContextStore(%q): %v", kind, err)
		}
		if _, ok := store.(*eia.MemoryContextStore); !ok {
			t.Errorf("newContextStore(%q) = %T, want *eia.MemoryContextStore", kind, store)
		}
		if len(checks) != 0 {
			t.Errorf("memory store registered %d health checks", len(checks))
		}
	}
}

func TestNewContextStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	store, checks, err := newContextStore(&config.Config{
		SessionStore: "redis",
		RedisURL:     "redis://" + mr.Addr(),
		SessionTTL:   time.Hour,
	})
	if err != nil {
		t.Fatalf("newContextStore(redis): %v", err)
	}
	rs, ok := store.(*eia.RedisContextStore)
	if !ok {
		t.Fatalf("store = %T, want *eia.RedisContextStore", store)
	}
	defer rs.Close()

	check, ok := checks["redis"]
	if !ok {
		t.Fatal("expected a redis health check")
	}
	if err := check(context.Background()); err != nil {
		t.Errorf("redis check: %v", err)
	}
}

func TestNewContextStore_Unknown(t *testing.T) {
	if _, _, err := newContextStore(&config.Config{SessionStore: "memcached"}); err == nil {
		t.Error("expected error for unknown store")
	}
}

func TestRequestTimeouts(t *testing.T) {
	cfg := requestTimeouts(&config.Config{LLMTimeout: 2 * time.Minute})
	if cfg.Default != 30*time.Second {
		t.Errorf("Default = %v, want 30s", cfg.Default)
	}
	if len(cfg.Skip) != 1 || cfg.Skip[0] != "/api/v1/eia/ws" {
		t.Errorf("Skip = %v, want the websocket stream only", cfg.Skip)
	}
	for _, o := range cfg.Overrides {
		if o.Timeout != 2*time.Minute {
			t.Errorf("override %s = %v, want the LLM timeout", o.Prefix, o.Timeout)
		}
	}
}

func TestAuthConfig(t *testing.T) {
	jc := authConfig(&config.Config{AuthIssuer: "https://idp.example", AuthSigningKey: "s3cret"})
	if jc.Issuer != "https://idp.example" {
		t.Errorf("Issuer = %q", jc.Issuer)
	}
	if string(jc.SigningKey) != "s3cret" {
		t.Errorf("SigningKey = %q", jc.SigningKey)
	}

	jc = authConfig(&config.Config{AuthJWKSURL: "https://idp.example/jwks"})
	if jc.SigningKey != nil {
		t.Error("expected no signing key when only JWKS is configured")
	}
}

func TestTemplateName(t *testing.T) {
	tests := map[string]string{
		eia.DocIntakeAssessment: "Intake Assessment",
		eia.DocCrisisPlan:       "Crisis Plan",
		eia.DocServiceNote:      "Service Note",
	}
	for in, want := range tests {
		if got := templateName(in); got != want {
			t.Errorf("templateName(%q) = %q, want %q", in, got, want)
		}
	}
}

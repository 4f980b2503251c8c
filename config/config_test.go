package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "secret")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Port != "5000" {
		t.Errorf("Port = %q, want 5000", c.Port)
	}
	if c.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v", c.TokenTTL)
	}
	if c.RatesTTL != time.Hour {
		t.Errorf("RatesTTL = %v", c.RatesTTL)
	}
	if c.ProtectAdmin {
		t.Error("ProtectAdmin should default to false")
	}
	if len(c.CORSOrigins) != len(defaultOrigins) {
		t.Errorf("CORSOrigins = %v", c.CORSOrigins)
	}
	if c.LoginRateLimit != 10 {
		t.Errorf("LoginRateLimit = %d", c.LoginRateLimit)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("CORS_ORIGINS", "https://zawamu.co.ke, https://admin.zawamu.co.ke,")
	t.Setenv("PROTECT_ADMIN_ROUTES", "true")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("CLOUDINARY_URL", "cloudinary://k:s@demo")

	c, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if c.Port != "8081" || c.TokenTTL != 2*time.Hour || !c.ProtectAdmin {
		t.Errorf("unexpected config %+v", c)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://admin.zawamu.co.ke" {
		t.Errorf("CORSOrigins = %v", c.CORSOrigins)
	}
	if c.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want fallback 0", c.RedisDB)
	}
	if !c.CloudinaryConfigured() {
		t.Error("expected Cloudinary to be configured")
	}
}

func TestFromEnvMissingRequired(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "MONGODB_URI") || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("error should name both variables: %v", err)
	}
}

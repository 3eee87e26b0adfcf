package auth

import (
	"testing"
	"time"

	"growup-backend/config"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiresIn: time.Hour}
}

func TestTokenRoundTrip(t *testing.T) {
	cfg := testConfig()
	token, err := GenerateToken(cfg, "65f0a1b2c3d4e5f601234567", "admin")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateToken(cfg, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.ID != "65f0a1b2c3d4e5f601234567" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(time.Now().Add(59*time.Minute)) {
		t.Fatalf("unexpected expiry %v", claims.ExpiresAt)
	}
}

func TestTokenRejected(t *testing.T) {
	cfg := testConfig()
	token, _ := GenerateToken(cfg, "u1", "user")

	other := testConfig()
	other.JWTSecret = "another-secret"
	if _, err := ValidateToken(other, token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}

	expired := testConfig()
	expired.JWTExpiresIn = -time.Minute
	old, _ := GenerateToken(expired, "u1", "user")
	if _, err := ValidateToken(cfg, old); err == nil {
		t.Fatal("expired token must be rejected")
	}

	if _, err := ValidateToken(cfg, "not-a-token"); err == nil {
		t.Fatal("garbage must be rejected")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("password stored in plaintext")
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) || CheckPasswordHash("s3cret", "") {
		t.Fatal("wrong password accepted")
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/luminacommerce/copilot-actions/pkg/config"
)

func sessionConfig() config.SessionConfig {
	return config.SessionConfig{Secret: "test-secret", Issuer: "storefront"}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := sessionConfig()

	token, err := MintSessionToken(cfg, time.Now(), "sess_42", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID != "sess_42" {
		t.Fatalf("expected session id sess_42, got %q", claims.SessionID)
	}
	if claims.Issuer != "storefront" {
		t.Fatalf("expected issuer storefront, got %q", claims.Issuer)
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := MintSessionToken(sessionConfig(), time.Now(), "sess_42", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	wrong := config.SessionConfig{Secret: "other-secret", Issuer: "storefront"}
	if _, err := ParseSessionToken(wrong, token); err == nil {
		t.Fatal("expected verification failure with the wrong secret")
	}
}

func TestParseSessionTokenRejectsWrongIssuer(t *testing.T) {
	minted := config.SessionConfig{Secret: "test-secret", Issuer: "somewhere-else"}
	token, err := MintSessionToken(minted, time.Now(), "sess_42", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseSessionToken(sessionConfig(), token); err == nil {
		t.Fatal("expected verification failure with the wrong issuer")
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	token, err := MintSessionToken(sessionConfig(), time.Now().Add(-2*time.Hour), "sess_42", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseSessionToken(sessionConfig(), token); err == nil {
		t.Fatal("expected verification failure for an expired token")
	}
}

func TestMintSessionTokenGeneratesSessionID(t *testing.T) {
	token, err := MintSessionToken(sessionConfig(), time.Now(), "  ", time.Hour)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseSessionToken(sessionConfig(), token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.SessionID == "" {
		t.Fatal("expected a generated session id")
	}
}

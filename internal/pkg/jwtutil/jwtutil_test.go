package jwtutil

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute, "owner")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "owner" {
		t.Errorf("subject = %q, want owner", claims.Subject)
	}
}

func TestParseTokenRejections(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute, "owner")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ParseToken("other-secret", token); err == nil {
		t.Error("wrong secret accepted")
	}
	if _, err := ParseToken("secret", token+"tampered"); err == nil {
		t.Error("tampered token accepted")
	}

	expired, err := GenerateToken("secret", -time.Minute, "owner")
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}
	if _, err := ParseToken("secret", expired); err == nil {
		t.Error("expired token accepted")
	}
}

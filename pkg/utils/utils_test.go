package utils

import (
	"testing"
	"time"
)

func TestHashPassword(t *testing.T) {
	password := "secret"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Errorf("Expected password check to pass")
	}

	if CheckPassword("wrongpassword", hash) {
		t.Errorf("Expected password check to fail")
	}
}

func TestJWT(t *testing.T) {
	secret := "supersecret"
	userID := "123"
	role := "association_admin"
	associationID := "7"

	token, err := GenerateToken(userID, role, associationID, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("Expected UserID %s, got %s", userID, claims.UserID)
	}

	if claims.Role != role {
		t.Errorf("Expected Role %s, got %s", role, claims.Role)
	}

	if claims.AssociationID != associationID {
		t.Errorf("Expected AssociationID %s, got %s", associationID, claims.AssociationID)
	}

	_, err = ValidateToken(token, "wrongsecret")
	if err == nil {
		t.Errorf("Expected error with wrong secret")
	}
}

func TestSuperadminTokenHasNoAssociation(t *testing.T) {
	token, err := GenerateToken("1", "superadmin", "", "secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.AssociationID != "" {
		t.Errorf("Expected empty association, got %q", claims.AssociationID)
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateTokenWithTTL("1", "evaluator", "3", "secret", time.Nanosecond)
	if err != nil {
		t.Fatalf("GenerateTokenWithTTL: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)

	if _, err := ValidateToken(token, "secret"); err == nil {
		t.Errorf("Expected expired token to be rejected")
	}
}

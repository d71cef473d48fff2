package jwt

import (
	"errors"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestValidateToken_RoundTrip(t *testing.T) {
	svc := NewHMACService("test-secret")
	userID := uuid.New()

	token, err := svc.Sign(userID, "avery@example.com", time.Hour)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "avery@example.com" {
		t.Fatalf("unexpected email: %q", claims.Email)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	svc := NewHMACService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Sign(uuid.New(), "", time.Hour)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := NewHMACService("test-secret").ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := NewHMACService("secret-a").Sign(uuid.New(), "", time.Hour)
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := NewHMACService("secret-b").ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewHMACService("test-secret")
	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestValidateToken_MissingUserID(t *testing.T) {
	svc := NewHMACService("test-secret")

	c := Claims{RegisteredClaims: jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for a zero user id, got %v", err)
	}
}

func TestValidateToken_RejectsUnexpectedAlgorithm(t *testing.T) {
	svc := NewHMACService("test-secret")
	userID := uuid.New()

	c := Claims{UserID: userID, RegisteredClaims: jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, c).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for HS512, got %v", err)
	}
}

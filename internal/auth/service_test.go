package auth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewService(nil, "test-secret")

	token, err := s.issueToken("user_abc")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}

	userID, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != "user_abc" {
		t.Errorf("userID = %q, want user_abc", userID)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(nil, "secret-a")
	verifier := NewService(nil, "secret-b")

	token, err := issuer.issueToken("user_abc")
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("expected validation failure")
	}
}

func TestValidateTokenRejectsWrongAlgorithm(t *testing.T) {
	s := NewService(nil, "test-secret")

	// An unsigned token must not pass HMAC validation.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user_abc"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := s.ValidateToken(signed); err == nil {
		t.Fatal("expected validation failure for alg=none")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	s := NewService(nil, "test-secret")
	if _, err := s.ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !isDuplicateKeyError(dup) {
		t.Error("unique violation not detected")
	}
	if !isDuplicateKeyError(errors.Join(errors.New("wrapped"), dup)) {
		t.Error("wrapped unique violation not detected")
	}
	if isDuplicateKeyError(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation misclassified")
	}
	if isDuplicateKeyError(errors.New("plain")) {
		t.Error("plain error misclassified")
	}
}

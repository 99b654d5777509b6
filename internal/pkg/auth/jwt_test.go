package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/veritasedu/veritas/internal/app/models"
)

func testJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    exp,
		TokenIssuer: "veritas-test",
	})
}

func TestJWTRoundTrip(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := &models.User{Username: "diretor", Name: "Diretor Geral", Role: models.RoleDirector}

	token, expiresIn, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if expiresIn != 3600 {
		t.Fatalf("expiresIn = %d, want 3600", expiresIn)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Username != "diretor" || claims.Role != string(models.RoleDirector) {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestValidateTokenFailures(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := &models.User{Username: "diretor", Role: models.RoleDirector}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := svc.ValidateToken("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("ValidateToken() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := svc.GenerateToken(user)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		other := NewJWTService(JWTConfig{SecretKey: "other-secret", TokenExp: time.Hour})
		if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("ValidateToken() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		expired := testJWTService(-time.Minute)
		token, _, err := expired.GenerateToken(user)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		if _, err := expired.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
			t.Fatalf("ValidateToken() error = %v, want ErrExpiredToken", err)
		}
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid header", header: "Bearer abc123", want: "abc123"},
		{name: "lowercase scheme", header: "bearer abc123", want: "abc123"},
		{name: "empty header", header: "", wantErr: true},
		{name: "missing token", header: "Bearer", wantErr: true},
		{name: "wrong scheme", header: "Basic abc123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExtractBearerToken(%q) = %q, want error", tt.header, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractBearerToken(%q) error = %v", tt.header, err)
			}
			if got != tt.want {
				t.Fatalf("ExtractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestHashers(t *testing.T) {
	schemes := []string{"plain", "bcrypt"}
	for _, scheme := range schemes {
		t.Run(scheme, func(t *testing.T) {
			hasher := NewHasher(scheme)
			stored, err := hasher.Hash("Matuto@84")
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if !hasher.Verify(stored, "Matuto@84") {
				t.Fatal("Verify() rejected the original password")
			}
			if hasher.Verify(stored, "errada") {
				t.Fatal("Verify() accepted a wrong password")
			}
		})
	}
}

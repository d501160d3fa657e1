package crypto

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"

	"gitlab.com/fcv-2025.net/codearena/internal/config"
	"gitlab.com/fcv-2025.net/codearena/internal/domain"
)

func TestParseTokenHMAC(t *testing.T) {
	is := is.New(t)
	svc := NewJWTService(&config.JwtConfig{Secret: "s3cret", TokenTTL: time.Minute})
	ctx := context.Background()

	token, err := svc.GenerateTokenHMAC(ctx, "HS256", map[string]interface{}{
		"user_id":  "7b0c3c1e-4d43-4a4a-9f3e-5a1f6e0b8d11",
		"username": "alice",
		"role":     "admin",
	})
	is.NoErr(err)

	payload, err := svc.ParseTokenHMAC(ctx, token)
	is.NoErr(err)
	is.Equal(payload.Username, "alice")
	is.Equal(payload.Role, domain.RoleAdmin)

	other := NewJWTService(&config.JwtConfig{Secret: "other"})
	_, err = other.ParseTokenHMAC(ctx, token)
	is.True(err != nil) // signed with a different secret
}

func TestParseTokenHMACExpired(t *testing.T) {
	is := is.New(t)
	svc := NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	ctx := context.Background()

	token, err := svc.GenerateTokenHMAC(ctx, "HS256", map[string]interface{}{
		"user_id": "7b0c3c1e-4d43-4a4a-9f3e-5a1f6e0b8d11",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	is.NoErr(err)

	_, err = svc.ParseTokenHMAC(ctx, token)
	is.True(err != nil)
}

func TestPasswordRoundTrip(t *testing.T) {
	is := is.New(t)
	svc := NewJWTService(&config.JwtConfig{Secret: "s3cret"})
	ctx := context.Background()

	hash, err := svc.EncryptPassword(ctx, "hunter2")
	is.NoErr(err)

	ok, err := svc.VerifyPassword(ctx, hash, "hunter2")
	is.NoErr(err)
	is.True(ok)

	ok, _ = svc.VerifyPassword(ctx, hash, "wrong")
	is.True(!ok)
}

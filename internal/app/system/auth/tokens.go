package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scopehub/scopehub/internal/app/system/autherr"
	"github.com/scopehub/scopehub/internal/domain/models"
)

// Account token types. Each flow accepts only its own type so a login
// token can never confirm an account or reset a password.
const (
	TypeAccess       = "access_token"
	TypeVerification = "verify_token"
	TypeReset        = "reset_token"
)

// AccountClaims is the payload of every account-scoped token.
type AccountClaims struct {
	Type   string `json:"type"`
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and parses account tokens. Access tokens are
// long-lived; verification and reset tokens expire after an hour.
type TokenIssuer struct {
	secret    []byte
	accessTTL time.Duration
	shortTTL  time.Duration
}

func NewTokenIssuer(secret string, accessTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:    []byte(secret),
		accessTTL: accessTTL,
		shortTTL:  time.Hour,
	}
}

// AccessToken signs a login token for an authenticated account.
func (i *TokenIssuer) AccessToken(u *models.User) (string, error) {
	return i.sign(TypeAccess, u, i.accessTTL)
}

// VerificationToken signs the token mailed out to confirm a new account.
func (i *TokenIssuer) VerificationToken(u *models.User) (string, error) {
	return i.sign(TypeVerification, u, i.shortTTL)
}

// ResetToken signs the token mailed out to reset a password.
func (i *TokenIssuer) ResetToken(u *models.User) (string, error) {
	return i.sign(TypeReset, u, i.shortTTL)
}

func (i *TokenIssuer) sign(tokenType string, u *models.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccountClaims{
		Type:   tokenType,
		UserID: u.ID.Hex(),
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", tokenType, err)
	}
	return signed, nil
}

// Parse validates a token and requires it to be of the wanted type.
func (i *TokenIssuer) Parse(tokenString, wantType string) (*AccountClaims, error) {
	var claims AccountClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, autherr.NewUnvalidToken(err)
	}
	if claims.Type != wantType {
		return nil, autherr.NewUnvalidToken(fmt.Errorf("token type %q, want %q", claims.Type, wantType))
	}
	return &claims, nil
}

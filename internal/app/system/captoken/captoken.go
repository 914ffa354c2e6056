// Package captoken issues and redeems capability tokens. A token is
// signed by a caller for a target scope (the audience) and can later
// be redeemed by the issuer themselves or by anyone whose resolved
// access includes that audience.
package captoken

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/scopehub/scopehub/internal/app/system/autherr"
	"github.com/scopehub/scopehub/internal/app/system/identity"
)

type Service struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Sign mints a capability token, optionally scoped to an audience. A
// token without an audience can only ever be redeemed by its issuer.
// Arbitrary payload claims ride along but may not shadow the
// registered claims.
func (s *Service) Sign(caller identity.Caller, audience string, payload map[string]any) (string, error) {
	if caller.ID == "" {
		return "", autherr.NewNotAuthenticated()
	}

	now := time.Now()
	claims := jwt.MapClaims{}
	for k, v := range payload {
		switch k {
		case "iss", "aud", "exp", "iat", "jti":
			// reserved
		default:
			claims[k] = v
		}
	}
	claims["iss"] = caller.ID
	if audience != "" {
		claims["aud"] = audience
	}
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(s.ttl).Unix()
	claims["jti"] = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign capability token: %w", err)
	}
	return signed, nil
}

// Verify redeems a token. The issuer may always redeem their own
// tokens; anyone else must hold the token's audience in their
// resolved access scopes.
func (s *Service) Verify(caller identity.Caller, tokenString string) (map[string]any, error) {
	if caller.ID == "" {
		return nil, autherr.NewNotAuthenticated()
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, autherr.NewUnvalidToken(err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, autherr.NewUnvalidToken(nil)
	}

	issuer, _ := claims["iss"].(string)
	audience, _ := claims["aud"].(string)

	if issuer != caller.ID && !caller.HasScope(audience) {
		return nil, autherr.NewNotAuthorizedByToken(caller.ID, audience)
	}
	return map[string]any(claims), nil
}

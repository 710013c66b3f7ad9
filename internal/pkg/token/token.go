package token

import (
	"errors"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
)

// Codec issues and verifies the signed access/refresh credential pair.
// Access and refresh tokens are signed with independent secrets and TTLs.
// The codec holds no persistent state; whether a refresh session is still
// usable is the session repository's call, not the codec's.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

type AccessClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwtlib.RegisteredClaims
}

type RefreshClaims struct {
	UserID int64 `json:"user_id"`
	jwtlib.RegisteredClaims
}

func NewCodec(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (c *Codec) AccessTTL() time.Duration  { return c.accessTTL }
func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// IssuePair mints a new access/refresh pair sharing a freshly generated jti.
// Pure over the codec configuration; nothing is persisted here.
func (c *Codec) IssuePair(userID int64, role string) (access, refresh, jti string, err error) {
	now := time.Now()
	jti = uuid.NewString()

	accessClaims := AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.accessTTL)),
		},
	}
	access, err = jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, accessClaims).SignedString(c.accessSecret)
	if err != nil {
		return "", "", "", err
	}

	refreshClaims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.refreshTTL)),
		},
	}
	refresh, err = jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, refreshClaims).SignedString(c.refreshSecret)
	if err != nil {
		return "", "", "", err
	}

	return access, refresh, jti, nil
}

// VerifyAccess checks signature and expiry of an access credential.
func (c *Codec) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.verify(tokenStr, claims, c.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh checks signature and expiry of a refresh credential. It does
// not confirm the referenced session is still Active.
func (c *Codec) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.verify(tokenStr, claims, c.refreshSecret); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func (c *Codec) verify(tokenStr string, claims jwtlib.Claims, secret []byte) error {
	parsed, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return ErrTokenExpired
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return ErrTokenSignatureInvalid
		default:
			return ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return ErrTokenMalformed
	}
	return nil
}

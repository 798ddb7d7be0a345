package tokens

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}

func (c *AccessClaims) UserID() (uint, error) {
	return parseSubject(c.Subject)
}

func (c *RefreshClaims) UserID() (uint, error) {
	return parseSubject(c.Subject)
}

type Pair struct {
	AccessToken  string
	RefreshToken string
	RefreshJTI   string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type Issuer struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

func (i *Issuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

func (i *Issuer) Issue(userID uint, role string) (*Pair, error) {
	now := i.now()
	id := strconv.FormatUint(uint64(userID), 10)

	accessExp := now.Add(i.AccessTTL)
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}).SignedString(i.AccessSecret)
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	refreshExp := now.Add(i.RefreshTTL)
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	}).SignedString(i.RefreshSecret)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshJTI:   jti,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func AccessClaimsFromToken(tokenStr string, accessSecret []byte) (*AccessClaims, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, hs256Key(accessSecret))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return &claims, nil
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, hs256Key(refreshSecret))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	if claims.ID == "" {
		return nil, errors.New("refresh token without jti")
	}
	return &claims, nil
}

func hs256Key(secret []byte) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	}
}

func parseSubject(sub string) (uint, error) {
	n, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, errors.New("invalid token subject")
	}
	return uint(n), nil
}

// Package jwt wraps golang-jwt/v5 with the two token shapes the framework's
// identity layer needs: a short-lived access token carrying the caller's
// identity, and a longer-lived refresh token carrying the user id and a
// token id but no email (the caller's repository is the source of truth on
// whether it is still live).
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("jwt: invalid token")
	ErrWrongType    = errors.New("jwt: unexpected token type")
	ErrExpired      = errors.New("jwt: token expired")
)

const (
	issuer        = "corefw"
	typAccess     = "access"
	typRefresh    = "refresh"
	claimUserID   = "uid"
	claimEmail    = "email"
	claimTokenID  = "tid"
	claimTokenTyp = "typ"
)

// Claims is what ValidateAccessToken returns.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
	IssuedAt  time.Time
	Issuer    string
}

// RefreshClaims is what ValidateRefreshToken returns.
type RefreshClaims struct {
	UserID    uuid.UUID
	TokenID   uuid.UUID
	ExpiresAt time.Time
	IssuedAt  time.Time
	Issuer    string
}

// JWTService signs and verifies HS256 tokens with a single shared secret,
// the way the teacher's config wires one JWT_SECRET_KEY env var for both token
// kinds.
type JWTService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewJWTService(secretKey string, accessExpiry, refreshExpiry time.Duration) *JWTService {
	return &JWTService{secret: []byte(secretKey), accessExpiry: accessExpiry, refreshExpiry: refreshExpiry}
}

func (s *JWTService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		claimUserID:   userID.String(),
		claimEmail:    email,
		claimTokenTyp: typAccess,
		"iss":         issuer,
		"iat":         now.Unix(),
		"exp":         now.Add(s.accessExpiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		claimUserID:   userID.String(),
		claimTokenID:  uuid.New().String(),
		claimTokenTyp: typRefresh,
		"iss":         issuer,
		"iat":         now.Unix(),
		"exp":         now.Add(s.refreshExpiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *JWTService) parse(token string) (jwt.MapClaims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrWrongType
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if claims[claimTokenTyp] != typAccess {
		return nil, ErrWrongType
	}
	userID, email, iss, iat, exp, err := commonFields(claims)
	if err != nil {
		return nil, err
	}
	return &Claims{UserID: userID, Email: email, Issuer: iss, IssuedAt: iat, ExpiresAt: exp}, nil
}

func (s *JWTService) ValidateRefreshToken(token string) (*RefreshClaims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if claims[claimTokenTyp] != typRefresh {
		return nil, ErrWrongType
	}
	userID, _, iss, iat, exp, err := commonFields(claims)
	if err != nil {
		return nil, err
	}
	tid, ok := claims[claimTokenID].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	tokenID, err := uuid.Parse(tid)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &RefreshClaims{UserID: userID, TokenID: tokenID, Issuer: iss, IssuedAt: iat, ExpiresAt: exp}, nil
}

func commonFields(claims jwt.MapClaims) (userID uuid.UUID, email, iss string, iat, exp time.Time, err error) {
	uid, ok := claims[claimUserID].(string)
	if !ok {
		return uuid.UUID{}, "", "", time.Time{}, time.Time{}, ErrInvalidToken
	}
	userID, err = uuid.Parse(uid)
	if err != nil {
		return uuid.UUID{}, "", "", time.Time{}, time.Time{}, ErrInvalidToken
	}
	email, _ = claims[claimEmail].(string)
	iss, _ = claims["iss"].(string)
	if v, ok := claims["iat"].(float64); ok {
		iat = time.Unix(int64(v), 0)
	}
	if v, ok := claims["exp"].(float64); ok {
		exp = time.Unix(int64(v), 0)
	}
	return userID, email, iss, iat, exp, nil
}

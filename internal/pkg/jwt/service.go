package jwt

import (
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"

	issuer = "alfred"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims identify a reviewer acting on onboarding requests and assignments.
type Claims struct {
	ReviewerID string `json:"reviewer_id"`
	Role       string `json:"role"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateReviewerToken(reviewerID, role string) (string, error)
	ValidateToken(tokenString string) (Claims, error)
}

type HMACService struct {
	secret    []byte
	expiresIn time.Duration

	now func() time.Time
}

func NewHMACService(secret string, expiresIn time.Duration) *HMACService {
	return &HMACService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

func ValidRole(role string) bool {
	return role == RoleReviewer || role == RoleAdmin
}

func (s *HMACService) GenerateReviewerToken(reviewerID, role string) (string, error) {
	reviewerID = strings.TrimSpace(reviewerID)
	role = strings.ToLower(strings.TrimSpace(role))
	if role == "" {
		role = RoleReviewer
	}
	if reviewerID == "" || !ValidRole(role) {
		return "", ErrTokenInvalid
	}
	if len(s.secret) == 0 || s.expiresIn <= 0 {
		return "", ErrTokenInvalid
	}

	now := s.now().UTC()
	c := Claims{
		ReviewerID: reviewerID,
		Role:       role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			Subject:   reviewerID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.expiresIn)),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(s.secret)
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if c.ReviewerID == "" || !ValidRole(c.Role) {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

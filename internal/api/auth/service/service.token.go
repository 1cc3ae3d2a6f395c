package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	models "zeniverse_api/internal/api/auth/models"
	basemodels "zeniverse_api/internal/api/base/models"
	basesvc "zeniverse_api/internal/api/base/service"
	"zeniverse_api/internal/common"
	"zeniverse_api/internal/utility"
)

const tokenIssuer = "zeniverse_api"

// TokenService issues HS256 access tokens and resolves them back to an
// active admin. It implements middleware.Authenticator.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	admins basesvc.BaseServiceMongo[models.Admin]
	now    func() time.Time
}

// NewTokenService returns a service signing with secret. A non-positive ttl
// falls back to 24 hours.
func NewTokenService(secret string, ttl time.Duration, admins basesvc.BaseServiceMongo[models.Admin]) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		admins: admins,
		now:    time.Now,
	}, nil
}

// Issue signs a token for admin. expiresAt is unix milliseconds.
func (s *TokenService) Issue(admin *models.Admin) (token string, expiresAt int64, err error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := models.JwtClaims{
		AdminID:  admin.ID.Hex(),
		Username: admin.Username,
		Role:     admin.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   admin.ID.Hex(),
			Issuer:    tokenIssuer,
			IssuedAt:  now.Unix(),
			ExpiresAt: exp.Unix(),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, utility.UnixMilli(exp), nil
}

// Parse verifies the signature and expiry of raw.
func (s *TokenService) Parse(raw string) (*models.JwtClaims, error) {
	var claims models.JwtClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	return &claims, nil
}

// Authenticate resolves raw to the admin it was issued for. Tokens of
// deleted or deactivated admins are rejected, and the role comes from the
// stored account rather than the claims.
func (s *TokenService) Authenticate(ctx context.Context, raw string) (*basemodels.Principal, error) {
	claims, err := s.Parse(raw)
	if err != nil {
		return nil, err
	}

	id, err := utility.ParseObjectID(claims.AdminID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}

	admin, err := s.admins.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, common.ErrAccountDisabled
	}
	return admin.Principal(), nil
}

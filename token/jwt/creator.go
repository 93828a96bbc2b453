package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/internal/utils"
	"github.com/jrsteele09/go-portfolio-client/token"
	"github.com/jrsteele09/go-portfolio-client/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const issuer = "portfolio-dev-api"

// ExpiryConfig supplies the access token lifetime. config.SecurityConfig satisfies it.
type ExpiryConfig interface {
	GetAccessTokenExpiry() time.Duration
}

// AccessClaims are the verified contents of an access token.
type AccessClaims struct {
	Subject   string
	Email     string
	Roles     []string
	ID        string // jti
	ExpiresAt time.Time
}

func (c *AccessClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Creator issues and verifies the JWT stored in the access token cookie
type Creator struct {
	config  ExpiryConfig
	signer  token.Signer
	revoked token.RevokedTokenCache
}

// NewCreator creates a new JWT creator. revoked may be nil.
func NewCreator(cfg ExpiryConfig, signer token.Signer, revoked token.RevokedTokenCache) *Creator {
	return &Creator{
		config:  cfg,
		signer:  signer,
		revoked: revoked,
	}
}

// CreateAccessToken creates a signed access token for user
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"iss":   issuer,                                          // The issuer of the token
		"sub":   user.ID,                                         // The user the token was issued to
		"email": user.Email,                                      // Login name, used by /auth/me
		"roles": user.RoleNames(),                                // Roles checked by admin routes
		"iat":   now.Unix(),                                      // Issued At: the time at which the token was issued
		"exp":   now.Add(c.config.GetAccessTokenExpiry()).Unix(), // Expiry: when the token will expire
		"jti":   uuid.New().String(),                             // Unique token ID for revocation
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, expiry and revocation of raw.
func (c *Creator) Verify(raw string) (*AccessClaims, error) {
	parsed, err := jwtlib.Parse(raw, c.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if perrors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, perrors.ErrTokenExpired
		}
		return nil, perrors.Wrapf(perrors.ErrInvalidToken, "%v", err)
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return nil, perrors.ErrInvalidToken
	}

	claims := &AccessClaims{}
	claims.Subject, _ = mapClaims["sub"].(string)
	claims.Email, _ = mapClaims["email"].(string)
	claims.ID, _ = mapClaims["jti"].(string)
	if roles, ok := mapClaims["roles"].([]any); ok {
		claims.Roles = utils.ToStringSlice(roles)
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	if c.revoked != nil && c.revoked.IsRevoked(claims.ID) {
		return nil, perrors.Wrapf(perrors.ErrInvalidToken, "token %s revoked", claims.ID)
	}
	return claims, nil
}

// Revoke invalidates a verified token until its natural expiry.
func (c *Creator) Revoke(claims *AccessClaims) {
	if c.revoked == nil || claims == nil {
		return
	}
	c.revoked.Add(claims.ID, claims.ExpiresAt)
}

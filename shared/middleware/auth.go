package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/forkful/recipe-catalog/shared/utils"
)

// AuthMiddleware validates bearer tokens issued by the external identity
// provider and exposes the principal to handlers. Verification runs against
// the provider's JWKS endpoint (RS256) when AUTH_JWKS_URL is set, or with a
// shared HS256 secret otherwise.
type AuthMiddleware struct {
	secret        []byte
	jwksValidator *utils.JWKSValidator
}

// PrincipalClaims carries the identity fields this service consumes from a
// token. Sub is the external user id that profiles are keyed on.
type PrincipalClaims struct {
	Sub   string
	Email string
	Role  string
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware() (*AuthMiddleware, error) {
	am := &AuthMiddleware{}

	if jwksURL := os.Getenv("AUTH_JWKS_URL"); jwksURL != "" {
		am.jwksValidator = utils.NewJWKSValidator(jwksURL)
	}
	if secret := os.Getenv("AUTH_TOKEN_SECRET"); secret != "" {
		am.secret = []byte(secret)
	}

	if am.jwksValidator == nil && am.secret == nil {
		return nil, fmt.Errorf("either AUTH_JWKS_URL or AUTH_TOKEN_SECRET must be set")
	}

	return am, nil
}

// RequireAuth middleware validates bearer tokens
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			c.Abort()
			return
		}

		claims, err := am.parseToken(tokenString)
		if err != nil || claims.Sub == "" {
			utils.UnauthorizedResponse(c, "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.Sub)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole middleware validates the principal's role claim
func (am *AuthMiddleware) RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role != requiredRole {
			utils.ForbiddenResponse(c, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// parseToken verifies the token signature and extracts the principal claims.
func (am *AuthMiddleware) parseToken(tokenString string) (*PrincipalClaims, error) {
	var token *jwt.Token
	var err error

	if am.jwksValidator != nil {
		token, err = am.jwksValidator.ValidateToken(tokenString)
	} else {
		token, err = jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return am.secret, nil
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims format")
	}

	return &PrincipalClaims{
		Sub:   getClaimString(claims, "sub"),
		Email: getClaimString(claims, "email"),
		Role:  getClaimString(claims, "role"),
	}, nil
}

// extractToken extracts the JWT token from the Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return authHeader
}

// getClaimString safely extracts a string claim from JWT claims
func getClaimString(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

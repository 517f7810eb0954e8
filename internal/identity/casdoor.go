package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
)

// ErrInvalidToken covers missing, malformed, and expired credentials.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the resolved caller: the engine only cares about who the
// student is and whether they hold the admin role.
type Identity struct {
	StudentID string
	Name      string
	Email     string
	IsAdmin   bool
}

// Verifier resolves an opaque bearer credential to an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Certificate  string
	Organization string
	Application  string
}

type casdoorVerifier struct {
	client *casdoorsdk.Client
}

func NewCasdoorVerifier(cfg CasdoorConfig) Verifier {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.Organization,
		cfg.Application,
	)
	return &casdoorVerifier{client: client}
}

func (v *casdoorVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	claims, err := v.client.ParseJwtToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{
		StudentID: claims.User.Id,
		Name:      claims.User.DisplayName,
		Email:     claims.User.Email,
		IsAdmin:   claims.User.IsAdmin,
	}, nil
}

// Middleware authenticates the request and stores the caller identity in
// the gin context under "user_id", "user_name" and "is_admin".
func Middleware(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Missing bearer token",
			})
			return
		}

		ident, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set("user_id", ident.StudentID)
		c.Set("user_name", ident.Name)
		c.Set("is_admin", ident.IsAdmin)
		c.Next()
	}
}

// RequireAdmin gates admin-only routes. Must run after Middleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, _ := c.Get("is_admin")
		if admin, ok := isAdmin.(bool); !ok || !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Admin role required",
			})
			return
		}
		c.Next()
	}
}

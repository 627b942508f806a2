package handlers

import (
	"net/http"
	"strings"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/mcadept/placement-portal/internal/config"
	"github.com/mcadept/placement-portal/internal/models"
	"github.com/mcadept/placement-portal/internal/repositories"
	"github.com/mcadept/placement-portal/internal/utils"
)

const identityContextKey = "identity"

// IdentityFromContext returns the authenticated caller stored by the auth
// middleware.
func IdentityFromContext(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

// Authenticator verifies Casdoor-issued tokens and resolves them into a
// portal identity. User records are mirrored into the local users table on
// first sight so attempts and content can reference them.
type Authenticator struct {
	client *casdoorsdk.Client
	users  repositories.UserRepository
	logger utils.Logger
}

func NewAuthenticator(cfg config.CasdoorConfig, users repositories.UserRepository, logger utils.Logger) *Authenticator {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Certificate,
		cfg.Organization,
		cfg.Application,
	)
	return &Authenticator{
		client: client,
		users:  users,
		logger: logger,
	}
}

// Middleware authenticates the request and stores the identity in the Gin
// context. Requests without a valid bearer token get a 401.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing bearer token",
			})
			return
		}

		claims, err := a.client.ParseJwtToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid token",
			})
			return
		}

		identity := models.Identity{
			UserID: claims.User.Id,
			Role:   roleFromClaims(claims),
		}

		a.syncUser(c, claims, identity.Role)

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// RequireOfficer rejects callers below the officer role. Services enforce
// permissions as well; this keeps obviously unauthorized requests out of
// the service layer.
func RequireOfficer() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}
		if !identity.IsOfficer() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Requires officer role",
				Code:    "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func roleFromClaims(claims *casdoorsdk.Claims) models.UserRole {
	if claims.User.IsAdmin {
		return models.RoleAdmin
	}
	if strings.EqualFold(claims.User.Tag, string(models.RoleOfficer)) {
		return models.RoleOfficer
	}
	return models.RoleStudent
}

// syncUser mirrors the identity provider's user record locally. Failures are
// logged and never block the request.
func (a *Authenticator) syncUser(c *gin.Context, claims *casdoorsdk.Claims, role models.UserRole) {
	if a.users == nil {
		return
	}

	ctx := c.Request.Context()
	if _, err := a.users.GetByID(ctx, claims.User.Id); err == nil {
		return
	} else if !repositories.IsNotFoundError(err) {
		a.logger.WarnContext(ctx, "user lookup failed during auth", "user_id", claims.User.Id, "error", err)
		return
	}

	user := &models.User{
		ID:       claims.User.Id,
		FullName: claims.User.DisplayName,
		Email:    claims.User.Email,
		Role:     role,
		IsActive: true,
	}
	if user.FullName == "" {
		user.FullName = claims.User.Name
	}

	if err := a.users.Create(ctx, user); err != nil && !repositories.IsDuplicateError(err) {
		a.logger.WarnContext(ctx, "failed to mirror user record", "user_id", claims.User.Id, "error", err)
	}
}

package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/auth"
	"storefront/internal/models"
)

// ContextUserID is the gin context key under which RequireSignIn stores the
// verified caller identity.
const ContextUserID = "userId"

func abortUnauthorized(c *gin.Context, reason, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"reason":  reason,
		"message": message,
	})
}

// RequireSignIn rejects requests that do not carry a valid bearer token and
// injects the resolved user id into the context for downstream handlers.
func RequireSignIn(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			log.Println("[AUTH] [ERROR] missing authorization header")
			abortUnauthorized(c, "missing_header", "Authorization token missing or malformed")
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Println("[AUTH] [ERROR] malformed authorization header")
			abortUnauthorized(c, "malformed_header", "Authorization token missing or malformed")
			return
		}

		userID, err := issuer.Verify(parts[1])
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, auth.ErrTokenExpired) {
				reason = "expired_token"
			}
			log.Println("[AUTH] [ERROR] token verification failed:", err)
			abortUnauthorized(c, reason, "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// RoleFetcher resolves the stored role for a user id.
type RoleFetcher func(ctx context.Context, userID primitive.ObjectID) (models.Role, error)

// FetchRoleFromMongo reads the caller's role from the users collection.
func FetchRoleFromMongo(db *mongo.Database) RoleFetcher {
	return func(ctx context.Context, userID primitive.ObjectID) (models.Role, error) {
		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			return models.RoleBuyer, err
		}
		return user.Role, nil
	}
}

// RequireAdmin re-reads the role on every request rather than trusting one
// baked into the token, so a demotion takes effect without waiting for the
// token to expire. Must run after RequireSignIn.
func RequireAdmin(fetchRole RoleFetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			log.Println("[AUTH] [ERROR] userId missing in context")
			abortUnauthorized(c, "missing_identity", "Unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		role, err := fetchRole(ctx, userID)
		if err != nil {
			log.Println("[AUTH] [ERROR] admin check user lookup failed:", err)
			abortUnauthorized(c, "unknown_user", "Error in admin middleware")
			return
		}

		if !role.IsAdmin() {
			abortUnauthorized(c, "not_admin", "You can't access this page!")
			return
		}

		c.Next()
	}
}

// UserIDFromContext returns the identity stored by RequireSignIn.
func UserIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(ContextUserID)
	if !ok {
		return primitive.NilObjectID, false
	}
	userID, ok := value.(primitive.ObjectID)
	return userID, ok
}

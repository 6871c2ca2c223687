package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/internal/auth"
	"storefront/internal/models"
)

func signInProbe(issuer *auth.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", RequireSignIn(issuer), func(c *gin.Context) {
		userID, ok := UserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": userID.Hex()})
	})
	return r
}

func probe(t *testing.T, r *gin.Engine, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSignInMissingHeader(t *testing.T) {
	r := signInProbe(auth.NewTokenIssuer("secret", time.Hour))

	w := probe(t, r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing_header")
}

func TestRequireSignInMalformedHeader(t *testing.T) {
	r := signInProbe(auth.NewTokenIssuer("secret", time.Hour))

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		w := probe(t, r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header=%q", header)
		assert.Contains(t, w.Body.String(), "malformed_header", "header=%q", header)
	}
}

func TestRequireSignInInvalidToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	other := auth.NewTokenIssuer("other-secret", time.Hour)
	r := signInProbe(issuer)

	token, err := other.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	w := probe(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_token")
}

func TestRequireSignInExpiredToken(t *testing.T) {
	expired := auth.NewTokenIssuer("secret", -time.Minute)
	r := signInProbe(auth.NewTokenIssuer("secret", time.Hour))

	token, err := expired.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	w := probe(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired_token")
}

func TestRequireSignInValidTokenInjectsIdentity(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	r := signInProbe(issuer)

	userID := primitive.NewObjectID()
	token, err := issuer.Issue(userID)
	require.NoError(t, err)

	w := probe(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.Hex())
}

func adminProbe(issuer *auth.TokenIssuer, fetchRole RoleFetcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", RequireSignIn(issuer), RequireAdmin(fetchRole), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAdminRejectsBuyer(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	r := adminProbe(issuer, func(ctx context.Context, userID primitive.ObjectID) (models.Role, error) {
		return models.RoleBuyer, nil
	})

	token, err := issuer.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	w := probe(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not_admin")
}

func TestRequireAdminAllowsAdministrator(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	userID := primitive.NewObjectID()

	var fetched primitive.ObjectID
	r := adminProbe(issuer, func(ctx context.Context, id primitive.ObjectID) (models.Role, error) {
		fetched = id
		return models.RoleAdministrator, nil
	})

	token, err := issuer.Issue(userID)
	require.NoError(t, err)

	w := probe(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, fetched, "role looked up for the token's user")
}

func TestRequireAdminUnknownUser(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	r := adminProbe(issuer, func(ctx context.Context, userID primitive.ObjectID) (models.Role, error) {
		return models.RoleBuyer, mongo.ErrNoDocuments
	})

	token, err := issuer.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	w := probe(t, r, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unknown_user")
}

func TestRequireAdminWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", RequireAdmin(func(ctx context.Context, userID primitive.ObjectID) (models.Role, error) {
		t.Fatal("role fetched without an identity in context")
		return models.RoleBuyer, nil
	}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := probe(t, r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing_identity")
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", RateLimit(1, 1), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

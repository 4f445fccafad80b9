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
	"golang.org/x/crypto/bcrypt"

	"github.com/dairydesk/backend/internal/config"
	"github.com/dairydesk/backend/internal/domain/models"
	"github.com/dairydesk/backend/internal/repository/mongodb"
	"github.com/dairydesk/backend/internal/service/auth"
)

type staticUserStore struct {
	user *models.User
}

func (s *staticUserStore) FindByMobile(_ context.Context, mobile string) (*models.User, error) {
	if s.user != nil && s.user.Mobile == mobile {
		return s.user, nil
	}
	return nil, mongodb.ErrNotFound
}

func authFixture(t *testing.T, role models.Role) (*auth.Service, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         "Asha",
		Mobile:       "9876543210",
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	svc := auth.NewService(&staticUserStore{user: user},
		config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}, nil)

	token, _, err := svc.Login(context.Background(), "9876543210", "s3cret")
	require.NoError(t, err)
	return svc, token
}

func protectedRouter(svc *auth.Service, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	group := r.Group("", RequireAuth(svc))
	if adminOnly {
		group.Use(RequireAdmin())
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"mobile": Caller(c).Mobile})
	})
	return r
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	svc, token := authFixture(t, models.RoleConsumer)
	r := protectedRouter(svc, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "9876543210")
}

func TestRequireAuthRejectsMissingOrBadToken(t *testing.T) {
	svc, _ := authFixture(t, models.RoleConsumer)
	r := protectedRouter(svc, false)

	for _, header := range []string{"", "Bearer ", "Bearer garbage", "Basic abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header=%q", header)
	}
}

func TestRequireAdmin(t *testing.T) {
	adminSvc, adminToken := authFixture(t, models.RoleAdmin)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	protectedRouter(adminSvc, true).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	consumerSvc, consumerToken := authFixture(t, models.RoleConsumer)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+consumerToken)
	protectedRouter(consumerSvc, true).ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCallerDefaultsToZeroIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, models.Identity{}, Caller(c))
}

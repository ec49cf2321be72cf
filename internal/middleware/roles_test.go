package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/samoschool/davomat-backend/internal/model"
	"github.com/samoschool/davomat-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withClaims(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyClaims, &service.Claims{UserID: 1, Username: "tester", Role: role})
		c.Next()
	}
}

func serve(handlers ...gin.HandlerFunc) *httptest.ResponseRecorder {
	r := gin.New()
	chain := append(handlers, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/probe", chain...)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	t.Run("matching role passes", func(t *testing.T) {
		w := serve(withClaims(model.RoleAdmin), RequireRole(model.RoleAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong role forbidden", func(t *testing.T) {
		w := serve(withClaims(model.RoleStudent), RequireRole(model.RoleAdmin))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing claims unauthorized", func(t *testing.T) {
		w := serve(RequireRole(model.RoleAdmin))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAnyRole(t *testing.T) {
	t.Run("second role passes", func(t *testing.T) {
		w := serve(withClaims(model.RoleAdmin), RequireAnyRole(model.RoleTeacher, model.RoleAdmin))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no matching role forbidden", func(t *testing.T) {
		w := serve(withClaims(model.RoleStudent), RequireAnyRole(model.RoleTeacher, model.RoleAdmin))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing claims unauthorized", func(t *testing.T) {
		w := serve(RequireAnyRole(model.RoleTeacher))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGetClaimsMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetClaims(c))
}

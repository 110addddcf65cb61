package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func authStatusFor(header string) int {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		ctx.Request.Header.Set("Authorization", header)
	}
	AuthMiddleware(ctx)
	return w.Code
}

func TestAuthMiddlewareRejectsMalformedHeaders(t *testing.T) {
	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc"} {
		assert.Equal(t, http.StatusUnauthorized, authStatusFor(header), "header %q", header)
	}
}

func TestRequireRole(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Set("role", "member")

	RequireRole("admin")(ctx)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

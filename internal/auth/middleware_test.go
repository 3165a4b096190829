package auth

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parent-products/internal/admin"
)

func TestRequireResource(t *testing.T) {
	acl, err := NewAuthorizer(map[string]string{"Magento_Catalog::products": `"catalog" in user.roles`})
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: admin.ErrorHandler})
	app.Get("/p", AuthMiddleware("s"), RequireResource(acl, "Magento_Catalog::products"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	tests := []struct {
		roles []string
		want  int
	}{
		{[]string{"catalog"}, 200},
		{[]string{"admin"}, 200},
		{[]string{"sales"}, 403},
	}
	for _, tt := range tests {
		token, err := GenerateAccessToken("u", tt.roles, "s")
		require.NoError(t, err)
		req, _ := http.NewRequest("GET", "/p", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.StatusCode, "roles %v", tt.roles)
	}
}

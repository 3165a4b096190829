package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizer(t *testing.T) {
	acl, err := NewAuthorizer(map[string]string{
		"mgh_parentproducts::parent_products": `"catalog" in user.roles`,
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		user     *UserContext
		resource string
		want     bool
	}{
		{"no user", nil, "MGH_ParentProducts::parent_products", false},
		{"admin bypasses rules", &UserContext{ID: "a", Roles: []string{"admin"}}, "Unknown::resource", true},
		{"role matches", &UserContext{ID: "c", Roles: []string{"catalog"}}, "MGH_ParentProducts::parent_products", true},
		{"role missing", &UserContext{ID: "s", Roles: []string{"sales"}}, "MGH_ParentProducts::parent_products", false},
		{"no roles", &UserContext{ID: "n"}, "MGH_ParentProducts::parent_products", false},
		{"unknown resource", &UserContext{ID: "c", Roles: []string{"catalog"}}, "Magento_Sales::sales", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.user != nil {
				ctx = WithUser(ctx, tt.user)
			}
			assert.Equal(t, tt.want, acl.IsAllowed(ctx, tt.resource))
		})
	}
}

func TestNewAuthorizerRejectsBadExpression(t *testing.T) {
	_, err := NewAuthorizer(map[string]string{"x": "user.roles ++"})
	assert.Error(t, err)
}

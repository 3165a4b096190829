package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	log "github.com/sirupsen/logrus"
)

// Authorizer decides whether the user on the context may use an ACL resource.
// Admins are always allowed; other users are allowed when the resource's
// expression evaluates to true against {user: {id, roles}}.
type Authorizer struct {
	programs map[string]*vm.Program
}

// NewAuthorizer compiles the resource expressions, keyed by ACL resource id.
func NewAuthorizer(resources map[string]string) (*Authorizer, error) {
	programs := make(map[string]*vm.Program, len(resources))
	for resource, code := range resources {
		prog, err := expr.Compile(code, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile acl rule for %s: %w", resource, err)
		}
		programs[strings.ToLower(resource)] = prog
	}
	return &Authorizer{programs: programs}, nil
}

func (a *Authorizer) IsAllowed(ctx context.Context, resource string) bool {
	user := UserFromContext(ctx)
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}

	prog, ok := a.programs[strings.ToLower(resource)]
	if !ok {
		return false
	}

	roles := user.Roles
	if roles == nil {
		roles = []string{}
	}
	env := map[string]any{
		"user": map[string]any{"id": user.ID, "roles": roles},
	}
	result, err := expr.Run(prog, env)
	if err != nil {
		log.WithField("resource", resource).Warnf("acl rule evaluation failed: %v", err)
		return false
	}
	allowed, _ := result.(bool)
	return allowed
}

package auth

import (
	"context"
	"errors"
)

// Permission represents an access level
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

// Principal represents an authenticated entity with permissions
type Principal struct {
	PrincipalID string                  `json:"principal_id"`
	Permissions map[string][]Permission `json:"permissions"`
	APIKey      string                  `json:"-"` // Don't expose in JSON
	Metadata    map[string]interface{}  `json:"metadata,omitempty"`
}

// HasPermission checks if a principal has a specific permission for a resource
func (p *Principal) HasPermission(resource string, permission Permission) bool {
	if p == nil || p.Permissions == nil {
		return false
	}

	perms, ok := p.Permissions[resource]
	if !ok {
		return false
	}

	for _, perm := range perms {
		if perm == permission {
			return true
		}
	}

	return false
}

// RequiredPermissions maps each forwarded operation to the resource
// permission it needs. Operations without an entry (the generic
// passthrough) are open to any authenticated principal.
var RequiredPermissions = map[string]map[string]Permission{
	"get_products": {
		"products": PermissionRead,
	},
	"get_properties": {
		"products": PermissionRead,
	},
	"get_channels": {
		"products": PermissionRead,
	},
	"get_epg_shows": {
		"products": PermissionRead,
	},
	"get_adbreaks": {
		"products": PermissionRead,
	},
	"get_inventory": {
		"products": PermissionRead,
	},
	"book_ad": {
		"media_buys": PermissionWrite,
	},
	"create_media_buy": {
		"media_buys": PermissionWrite,
	},
	"get_media_buy_delivery": {
		"reports": PermissionRead,
	},
	"discover_signals": {
		"signals": PermissionRead,
	},
	"activate_signal": {
		"signals": PermissionWrite,
	},
	"sync_creatives": {
		"creatives": PermissionWrite,
	},
}

// CheckOperationPermissions verifies if a principal has all required permissions for an operation
func CheckOperationPermissions(principal *Principal, operation string) error {
	requiredPerms, ok := RequiredPermissions[operation]
	if !ok {
		// If no permissions defined, allow access (for public operations)
		return nil
	}

	if principal == nil {
		return errors.New("authentication required")
	}

	for resource, requiredPerm := range requiredPerms {
		if !principal.HasPermission(resource, requiredPerm) {
			return &InsufficientPermissionsError{
				Resource:   resource,
				Permission: requiredPerm,
				Operation:  operation,
			}
		}
	}

	return nil
}

// InsufficientPermissionsError represents a permission denied error
type InsufficientPermissionsError struct {
	Resource   string
	Permission Permission
	Operation  string
}

func (e *InsufficientPermissionsError) Error() string {
	return "insufficient permissions for operation"
}

// Context keys
type contextKey string

const (
	ContextKeyPrincipal contextKey = "principal"
)

// GetPrincipalFromContext retrieves the principal from context
func GetPrincipalFromContext(ctx context.Context) (*Principal, bool) {
	principal, ok := ctx.Value(ContextKeyPrincipal).(*Principal)
	return principal, ok
}

package httpkit

import (
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoleAdmin grants access to the /admin route group.
const RoleAdmin = "admin"

// Identity is the authenticated caller as seen by handlers.
type Identity interface {
	UserID() uuid.UUID
	Roles() []string
	HasRole(role string) bool
	IsAdmin() bool
	IsAuthenticated() bool
}

type identity struct {
	userID uuid.UUID
	roles  []string
}

func (i identity) UserID() uuid.UUID        { return i.userID }
func (i identity) Roles() []string          { return i.roles }
func (i identity) HasRole(role string) bool { return slices.Contains(i.roles, role) }
func (i identity) IsAdmin() bool            { return i.HasRole(RoleAdmin) }
func (i identity) IsAuthenticated() bool    { return i.userID != uuid.Nil }

// SetIdentity stores the caller on the gin context.
func SetIdentity(c *gin.Context, userID uuid.UUID, roles []string) {
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextRolesKey, roles)
}

// GetIdentity returns the caller, unauthenticated when AuthRequired did not run.
func GetIdentity(c *gin.Context) Identity {
	uid, _ := c.Value(ContextUserIDKey).(uuid.UUID)
	roles, _ := c.Value(ContextRolesKey).([]string)
	return identity{userID: uid, roles: roles}
}

// MustGetIdentity aborts with 401 and returns nil for anonymous callers.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		abortUnauthorized(c, "unauthorized")
		return nil
	}
	return id
}

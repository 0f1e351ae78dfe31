// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleAdministrator is the role name that unlocks administrative operations.
const RoleAdministrator = "administrator"

// Identity represents the authenticated user's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() int64
	// Role returns the user's role.
	Role() string
	// IsAdministrator reports whether the user holds the administrator role.
	IsAdministrator() bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	userID        int64
	role          string
	authenticated bool
}

func (i *identity) UserID() int64 {
	return i.userID
}

func (i *identity) Role() string {
	return i.role
}

func (i *identity) IsAdministrator() bool {
	return i.role == RoleAdministrator
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// NewIdentity builds an authenticated Identity. Intended for tests and adapters.
func NewIdentity(userID int64, role string) Identity {
	return &identity{userID: userID, role: role, authenticated: true}
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	role, roleOK := c.Get(ContextRoleKey)

	if !userOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(int64)
	if !ok {
		return &identity{authenticated: false}
	}

	roleName := ""
	if roleOK {
		roleName, _ = role.(string)
	}

	return &identity{
		userID:        uid,
		role:          roleName,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}

package auth

import "github.com/gin-gonic/gin"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Actor is the authenticated caller, passed explicitly into service operations.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func ActorFrom(c *gin.Context) Actor {
	return Actor{
		UserID: c.GetString(CtxUserIDKey),
		Role:   c.GetString(CtxRoleKey),
	}
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

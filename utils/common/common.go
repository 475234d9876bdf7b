package common

import (
	"github.com/gin-gonic/gin"
)

func GetUserRole(c *gin.Context) string {
	role, _ := c.Get("role")
	if role == nil {
		return ""
	}
	return role.(string)
}

func GetUserID(c *gin.Context) *uint {
	if value, exists := c.Get("user_id"); exists {
		switch v := value.(type) {
		case uint:
			return &v
		case float64:
			id := uint(v)
			return &id
		}
	}
	return nil
}

// GetStoreID returns the store the authenticated user is bound to.
// Zero means the auth middleware did not run.
func GetStoreID(c *gin.Context) uint {
	if value, exists := c.Get("store_id"); exists {
		switch v := value.(type) {
		case uint:
			return v
		case float64:
			return uint(v)
		}
	}
	return 0
}

func GetStringValue(ptr *string) string {
	if ptr != nil {
		return *ptr
	}
	return ""
}

func PtrString(s string) *string {
	return &s
}

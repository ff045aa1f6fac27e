package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/welltrack/welltrack/internal/auth/domain"
)

const contextIdentityKey = "identity"

// AuthRequired resolves the Authorization header (bearer token or basic
// pair) into a caller identity before any handler logic runs. Every
// request authenticates independently; there is no session state.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		identity, err := s.authsvc.Resolve(c.Request.Context(), header)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextIdentityKey, identity)
		c.Next()
	}
}

func identityFrom(c *gin.Context) *authdomain.Identity {
	v, ok := c.Get(contextIdentityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*authdomain.Identity)
	return identity
}

package server

import (
	"net/http"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	sessiondomain "github.com/welltrack/welltrack/internal/session/domain"
)

// listLimit caps the recent-sessions read; exports use the unbounded path.
const listLimit = 1000

func (s *Server) ListSessions(c *gin.Context) {
	identity := identityFrom(c)

	rows, err := s.sessionsvc.Recent(c.Request.Context(), identity.UserID, listLimit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

func (s *Server) ClearSessions(c *gin.Context) {
	identity := identityFrom(c)

	if err := s.sessionsvc.Clear(c.Request.Context(), identity.UserID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (s *Server) DeleteSession(c *gin.Context) {
	identity := identityFrom(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		AbortWithError(c, sessiondomain.ErrInvalidSession)
		return
	}

	changes, err := s.sessionsvc.Delete(c.Request.Context(), identity.UserID, snowflake.ID(id))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted", "changes": changes})
}

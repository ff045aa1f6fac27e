package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) TodayReport(c *gin.Context) {
	identity := identityFrom(c)

	report, err := s.sessionsvc.Today(c.Request.Context(), identity.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (s *Server) Achievements(c *gin.Context) {
	identity := identityFrom(c)

	achievements, totals, err := s.sessionsvc.Achievements(c.Request.Context(), identity.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements, "totals": totals})
}

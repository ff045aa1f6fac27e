package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	sessiondomain "github.com/welltrack/welltrack/internal/session/domain"
)

func (s *Server) ReportUsage(c *gin.Context) {
	identity := identityFrom(c)

	var req sessiondomain.ReportUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, sessiondomain.ErrMissingFields)
		return
	}

	if _, err := s.sessionsvc.ReportUsage(c.Request.Context(), identity.UserID, req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type syncRequest struct {
	Sessions json.RawMessage `json:"sessions"`
}

func (s *Server) Sync(c *gin.Context) {
	identity := identityFrom(c)

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, sessiondomain.ErrNotSequence)
		return
	}

	// The batch must be a JSON array; anything else is a validation
	// failure, not an empty sync.
	var records []sessiondomain.RawRecord
	if len(req.Sessions) == 0 || string(req.Sessions) == "null" {
		AbortWithError(c, sessiondomain.ErrNotSequence)
		return
	}
	if err := json.Unmarshal(req.Sessions, &records); err != nil {
		AbortWithError(c, sessiondomain.ErrNotSequence)
		return
	}

	inserted, err := s.sessionsvc.Sync(c.Request.Context(), identity.UserID, records)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "inserted": inserted})
}

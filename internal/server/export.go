package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) ExportPDF(c *gin.Context) {
	identity := identityFrom(c)

	rows, err := s.sessionsvc.All(c.Request.Context(), identity.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdf.GenerateExport(c.Request.Context(), identity.Username, rows)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	filename := fmt.Sprintf("welltrack_%s_%s.pdf", identity.Username, time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, doc)
}

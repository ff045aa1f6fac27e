package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/welltrack/welltrack/internal/auth/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, authdomain.ErrMissingFields)
		return
	}

	result, err := s.authsvc.Register(c.Request.Context(), authdomain.CredentialsRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": result.Token})
}

func (s *Server) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, authdomain.ErrMissingFields)
		return
	}

	result, err := s.authsvc.Login(c.Request.Context(), authdomain.CredentialsRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": result.Token})
}

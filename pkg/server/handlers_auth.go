package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/nyksales/pkg/auth"
	"github.com/example/nyksales/pkg/service"
)

func (s *Server) login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.auth.Login(c.Request.Context(), &req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) refreshToken(c *gin.Context) {
	token, err := s.auth.Refresh(c.Request.Context(), auth.UserID(c))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": token})
}

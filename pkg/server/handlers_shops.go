package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/nyksales/pkg/service"
)

func (s *Server) createShop(c *gin.Context) {
	var req service.CreateShopRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shop, err := s.shops.Create(c.Request.Context(), &req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, shop)
}

func (s *Server) listShops(c *gin.Context) {
	page, limit := pagingParams(c)

	result, err := s.shops.List(c.Request.Context(), page, limit, c.Query("region"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) getShop(c *gin.Context) {
	shop, err := s.shops.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (s *Server) updateShop(c *gin.Context) {
	var req service.UpdateShopRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shop, err := s.shops.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (s *Server) deleteShop(c *gin.Context) {
	if err := s.shops.Remove(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Shop deleted successfully"})
}

func (s *Server) listShopRegions(c *gin.Context) {
	regions, err := s.shops.Regions(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, regions)
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/example/nyksales/pkg/auth"
	"github.com/example/nyksales/pkg/config"
	"github.com/example/nyksales/pkg/models"
	"github.com/example/nyksales/pkg/service"
)

type Server struct {
	config   *config.Config
	logger   *zap.Logger
	router   *gin.Engine
	tokens   *auth.Manager
	auth     *service.AuthService
	users    *service.UserService
	shops    *service.ShopService
	products *service.ProductService
	orders   *service.OrderService
}

func NewServer(cfg *config.Config, logger *zap.Logger, tokens *auth.Manager,
	authSvc *service.AuthService, users *service.UserService, shops *service.ShopService,
	products *service.ProductService, orders *service.OrderService) *Server {

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Server{
		config:   cfg,
		logger:   logger,
		router:   router,
		tokens:   tokens,
		auth:     authSvc,
		users:    users,
		shops:    shops,
		products: products,
		orders:   orders,
	}
}

func (s *Server) SetupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login", s.login)
			authRoutes.POST("/refresh", auth.Authenticate(s.tokens), s.refreshToken)
		}

		protected := v1.Group("")
		protected.Use(auth.Authenticate(s.tokens))
		{
			users := protected.Group("/users", auth.RequireRoles(models.RoleAdmin))
			{
				users.POST("", s.createUser)
				users.GET("", s.listUsers)
				users.GET("/:id", s.getUser)
				users.PATCH("/:id", s.updateUser)
				users.DELETE("/:id", s.deleteUser)
			}

			shops := protected.Group("/shops")
			{
				shops.GET("", s.listShops)
				shops.GET("/regions", s.listShopRegions)
				shops.GET("/:id", s.getShop)
				shops.POST("", auth.RequireRoles(models.RoleAdmin), s.createShop)
				shops.PATCH("/:id", auth.RequireRoles(models.RoleAdmin), s.updateShop)
				shops.DELETE("/:id", auth.RequireRoles(models.RoleAdmin), s.deleteShop)
			}

			products := protected.Group("/products")
			{
				products.GET("", s.listProducts)
				products.GET("/categories", s.listProductCategories)
				products.GET("/:id", s.getProduct)
				products.POST("", auth.RequireRoles(models.RoleAdmin), s.createProduct)
				products.PATCH("/:id", auth.RequireRoles(models.RoleAdmin), s.updateProduct)
				products.PATCH("/:id/stock", auth.RequireRoles(models.RoleAdmin), s.adjustProductStock)
				products.DELETE("/:id", auth.RequireRoles(models.RoleAdmin), s.deleteProduct)
			}

			orders := protected.Group("/orders")
			{
				orders.POST("", s.createOrder)
				orders.GET("", s.listOrders)
				orders.GET("/stats", s.getOrderStats)
				orders.GET("/:id", s.getOrder)
				orders.PATCH("/:id", auth.RequireRoles(models.RoleAdmin, models.RoleRegionalSales), s.updateOrder)
				orders.DELETE("/:id", auth.RequireRoles(models.RoleAdmin), s.deleteOrder)
			}
		}
	}

	// Swagger
	s.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.logger.Info("Server starting", zap.String("address", addr))
	return s.router.Run(addr)
}

// respondError maps service error kinds to HTTP status codes.
// Unrecognized errors are logged and reported as 500 without details.
func (s *Server) respondError(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		status := http.StatusInternalServerError
		switch se.Kind {
		case service.KindNotFound:
			status = http.StatusNotFound
		case service.KindInsufficientStock, service.KindValidation:
			status = http.StatusBadRequest
		case service.KindConflict:
			status = http.StatusConflict
		case service.KindUnauthorized:
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": se.Message})
		return
	}

	s.logger.Error("Unhandled error",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

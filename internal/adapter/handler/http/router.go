package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sm8ta/bike_inventory_service/docs"
	"github.com/sm8ta/bike_inventory_service/internal/config"
	"github.com/sm8ta/bike_inventory_service/internal/core/ports"
)

type Router struct {
	router *gin.Engine
}

// NewRouter builds the gin engine. A nil tokenService leaves the write
// routes open.
func NewRouter(
	cfg *config.HTTP,
	logger ports.LoggerPort,
	tokenService ports.TokenService,
	bicycleHandler *BicycleHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: cfg.AllowedOrigins != "*",
	}))
	router.Use(RequestIDMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", bicycleHandler.Index)

	write := []gin.HandlerFunc{}
	if tokenService != nil {
		write = append(write, AuthMiddleware(tokenService, logger))
	}

	// Bicycle routes
	bikes := router.Group("/bike")
	{
		bikes.GET("", bicycleHandler.ListBicycles)
		bikes.GET("/:id", bicycleHandler.GetBicycle)
		bikes.POST("", append(write, bicycleHandler.CreateBicycle)...)
		bikes.PUT("/:id", append(write, bicycleHandler.UpdateBicycle)...)
		bikes.PATCH("/:id", append(write, bicycleHandler.PatchBicycle)...)
	}
	return &Router{router: router}, nil
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}

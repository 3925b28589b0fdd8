package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/settleroom/settleroom/internal/auth"
	"github.com/settleroom/settleroom/internal/handlers"
	"github.com/settleroom/settleroom/internal/middleware"
	"github.com/settleroom/settleroom/internal/service"
)

type routerDeps struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	rooms         *service.RoomService
	settlements   *service.SettlementService
	events        *service.EventService
}

func newRouter(deps routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.authenticator, deps.jwtManager)
	roomHandler := handlers.NewRoomHandler(deps.rooms)
	settlementHandler := handlers.NewSettlementHandler(deps.settlements)
	eventHandler := handlers.NewEventHandler(deps.events)

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/login", authHandler.Login)

	api := router.Group("/api/v1", middleware.RequireAuth(deps.jwtManager))
	{
		api.POST("/rooms", roomHandler.Create)
		api.GET("/rooms", roomHandler.List)
		api.GET("/rooms/:id", roomHandler.Get)
		api.PUT("/rooms/:id/participants/:userID/paid", roomHandler.MarkPaid)
		api.POST("/rooms/:id/settlements", settlementHandler.Submit)
		api.GET("/rooms/:id/settlements", settlementHandler.ListByRoom)
		api.POST("/settlements/:id/resolve", settlementHandler.Resolve)

		api.POST("/events", eventHandler.Create)
		api.GET("/events/:id", eventHandler.Get)
		api.DELETE("/events/:id", eventHandler.Delete)
		api.GET("/events/:id/balances", eventHandler.Balances)
		api.GET("/events/:id/transfers", eventHandler.Transfers)
	}

	return router
}

package http

import (
	"github.com/RyanB1303/order-service/internal/adapter/http/middleware"
	"github.com/RyanB1303/order-service/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *OrderHandler, th *TokenHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	orders := r.Group("/orders")
	{
		orders.POST("", authz.Require("orders.write"), h.SubmitOrder)
		orders.GET("", authz.Require("orders.read"), h.GetAllOrders)
		orders.GET("/:id", authz.Require("orders.read"), h.GetOrderByID)
		orders.GET("/:id/status", authz.Require("orders.read"), h.GetOrderStatus)
	}

	return r
}

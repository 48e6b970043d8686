package httpserver

import (
	"robot-notifier/internal/middleware"
	robotHTTP "robot-notifier/internal/robot/delivery/http"

	"github.com/gin-gonic/gin"
)

func (srv *HTTPServer) mapHandlers() {
	mw := middleware.New(srv.logger, srv.jwtMgr, srv.robotUC, srv.traceChannel)
	srv.gin.Use(gin.Logger(), mw.Trace(), mw.Recovery())

	// Health check endpoints (no auth required)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	api := srv.gin.Group(Api, mw.Throttle(srv.rateLimit, srv.rateBurst))
	robotHTTP.New(srv.logger, srv.robotUC).RegisterRoutes(api, mw)
}

package server

import "github.com/labstack/echo/v4"

func registerRoutes(e *echo.Echo, s *Server) {
	e.GET("/status", s.statusHandler)
	e.GET("/frame.png", s.frameHandler)
	e.POST("/draw", s.drawHandler)
	e.POST("/initialize", s.initializeHandler)
	e.POST("/restart", s.restartHandler)
	e.POST("/finalize", s.finalizeHandler)
}

package api

import (
	"github.com/datallboy/godl/internal/api/controllers"
	"github.com/datallboy/godl/internal/app"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
)

func RegisterRoutes(e *echo.Echo, app *app.Context) {
	log := app.Logger.Named("api")

	// Middleware: Request Logger
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c *echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("%s %s | %d | %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	tasks := &controllers.TasksController{App: app}

	g := e.Group("/api")
	g.POST("/tasks", tasks.Create)
	g.GET("/tasks", tasks.List)
	g.GET("/tasks/:id", tasks.Get)
	g.POST("/tasks/:id/pause", tasks.Pause)
	g.POST("/tasks/:id/resume", tasks.Resume)
	g.POST("/tasks/:id/cancel", tasks.Cancel)

	g.GET("/events", tasks.Events)
	g.GET("/progress", tasks.Progress)
	g.GET("/history", tasks.History)
}

// NewServer returns an echo instance with every route registered.
func NewServer(app *app.Context) *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, app)
	return e
}

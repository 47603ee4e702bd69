// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"ummana/internal/http/handlers"
	"ummana/internal/http/middleware"
	"ummana/internal/modules/agent"
	"ummana/internal/modules/area"
	"ummana/internal/modules/driver"
	"ummana/internal/modules/hospital"
	"ummana/internal/modules/ride"
)

type RouterDeps struct {
	Areas     *area.Service
	Agents    *agent.Service
	Drivers   *driver.Service
	Hospitals *hospital.Service
	Rides     *ride.Service
	Logger    *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Auth())

	authHandler := handlers.NewAuthHandler(deps.Agents, deps.Drivers)
	r.POST("/auth/login", authHandler.Login)

	areaHandler := handlers.NewAreaHandler(deps.Areas)
	r.POST("/register-catchment-area", areaHandler.Register)
	r.GET("/catchment-areas", areaHandler.List)
	r.PATCH("/catchment-areas/:id", areaHandler.Update)
	r.DELETE("/catchment-areas/:id", areaHandler.Delete)

	agentHandler := handlers.NewAgentHandler(deps.Agents)
	r.POST("/register-chips-agent", agentHandler.Register)
	r.GET("/chips-agents", agentHandler.List)
	r.GET("/chips-agents/:id", agentHandler.Get)
	r.PATCH("/chips-agents/:id", agentHandler.Update)
	r.DELETE("/chips-agents/:id", agentHandler.Delete)

	driverHandler := handlers.NewDriverHandler(deps.Drivers)
	r.POST("/register-driver", driverHandler.Register)
	r.GET("/drivers", driverHandler.List)
	r.GET("/drivers/:id", driverHandler.Get)
	r.PATCH("/drivers/:id", driverHandler.Update)
	r.DELETE("/drivers/:id", driverHandler.Delete)
	r.POST("/update-driver-location", driverHandler.UpdateLocation)
	r.POST("/request-driver-location", driverHandler.RequestLocation)

	hospitalHandler := handlers.NewHospitalHandler(deps.Hospitals)
	r.POST("/register-hospital", hospitalHandler.Register)
	r.GET("/hospitals", hospitalHandler.List)
	r.GET("/hospitals/:id", hospitalHandler.Get)
	r.PATCH("/hospitals/:id", hospitalHandler.Update)
	r.DELETE("/hospitals/:id", hospitalHandler.Delete)

	rideHandler := handlers.NewRideHandler(deps.Rides)
	r.POST("/request-ride", rideHandler.RequestRide)
	r.POST("/respond-to-ride-request", rideHandler.Respond)
	r.PATCH("/update-request/:id", rideHandler.UpdateRequest)
	r.GET("/ride-requests/:id", rideHandler.Get)
	r.GET("/chips-active-ride/:agentId", rideHandler.ActiveByAgent)
	r.GET("/chips-ride-history/:agentId", rideHandler.HistoryByAgent)
	r.GET("/driver-pending-requests/:driverId", rideHandler.PendingForDriver)
	r.GET("/driver-active-ride/:driverId", rideHandler.ActiveForDriver)
	r.GET("/driver-ride-history/:driverId", rideHandler.HistoryByDriver)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

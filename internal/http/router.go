// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"gocars/internal/http/handlers"
	"gocars/internal/http/middleware"
	"gocars/internal/infra"
	"gocars/internal/modules/fleet"
	"gocars/internal/modules/matching"
	"gocars/internal/modules/outcome"
)

type RouterDeps struct {
	Matching   *matching.Service
	Outcomes   *outcome.Service
	Fleet      *fleet.Service
	Candidates *matching.Store
	Verifier   infra.TokenVerifier
	Logger     zerolog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logging(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	matchHandler := handlers.NewMatchHandler(deps.Matching)
	api.POST("/matches", matchHandler.Find)

	outcomeHandler := handlers.NewOutcomeHandler(deps.Outcomes)
	api.POST("/outcomes", outcomeHandler.Record)

	driverHandler := handlers.NewDriverHandler(deps.Candidates)
	api.POST("/drivers/:id/location", driverHandler.UpdateLocation)
	api.DELETE("/drivers/:id/location", driverHandler.RemoveLocation)

	fleetHandler := handlers.NewFleetHandler(deps.Fleet)
	api.GET("/fleet/optimization", fleetHandler.Optimize)

	return r
}

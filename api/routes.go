package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NewRouter builds the gin engine serving the league API under /api.
func NewRouter(svc LeagueService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	h := NewHandler(svc)
	apiRoutes := router.Group("/api")
	{
		apiRoutes.GET("/leagues", h.GetLeagues)
		apiRoutes.GET("/standings", h.GetAllStandings)

		leagueRoutes := apiRoutes.Group("/leagues/:leagueId")
		leagueRoutes.GET("/standings", h.GetStandings)
		leagueRoutes.POST("/matches", h.ScheduleMatch)
		leagueRoutes.POST("/matches/simulate", h.SimulateMatch)
		leagueRoutes.POST("/playoffs", h.CreatePlayoffs)
		leagueRoutes.GET("/playoffs", h.GetPlayoffs)
		leagueRoutes.DELETE("/playoffs", h.DeletePlayoffs)

		apiRoutes.GET("/teams/:teamId/players", h.GetRoster)

		apiRoutes.PUT("/matches/:matchId/status", h.UpdateMatchStatus)
		apiRoutes.PUT("/matches/:matchId/result", h.RecordMatchResult)

		apiRoutes.PUT("/playoffs/:playoffsId/winner", h.RecordPlayoffWinner)
	}
	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request handled")
	}
}

package handler

import (
	"context"
	"net/http"
	"time"

	"agilemate/internal/middleware"
	"agilemate/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Mirror receives every newly created record. Implementations must not block for long;
// handlers call it from a separate goroutine.
type Mirror interface {
	SyncProject(ctx context.Context, p *model.Project)
	SyncDailyUpdate(ctx context.Context, u *model.DailyUpdate)
}

type Deps struct {
	Env         string
	DatabaseID  string
	CORSOrigins []string

	DB       Pinger
	Verifier middleware.IdentityVerifier
	Tokens   TokenIssuer
	Accounts Accounts
	Projects ProjectStore
	Updates  UpdateStore
	Summary  Summarizer
	Mirror   Mirror // optional

	Static http.FileSystem // optional web client
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.AccessLog(), middleware.Metrics())
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	status := NewStatusHandler(d.DB, d.Env, d.DatabaseID)
	authH := NewAuthHandler(d.Accounts, d.Tokens)
	projectH := NewProjectHandler(d.Projects, d.Mirror)
	dailyH := NewDailyHandler(d.Projects, d.Updates, d.Summary, d.Mirror)

	r.GET("/", status.Home)
	r.GET("/api/status", status.Status)
	r.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))
	r.POST("/api/register", authH.Register)
	r.POST("/api/login", authH.Login)

	api := r.Group("/api", middleware.Auth(d.Verifier))
	api.POST("/projects", projectH.Create)
	api.GET("/projects", projectH.List)
	api.POST("/daily-updates", dailyH.Create)
	api.GET("/daily-updates/summary/:projectId/:date", dailyH.Summary)

	if d.Static != nil {
		r.StaticFS("/app", d.Static)
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "Not found"})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

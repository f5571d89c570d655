package webserver

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stake-plus/discord-forms/src/formapi/config"
)

func New(cfg config.Config, db *gorm.DB) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())
	attachRoutes(g, cfg, db)
	return g
}

func attachRoutes(r *gin.Engine, cfg config.Config, db *gorm.DB) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authH := NewAuth([]byte(cfg.JWTSecret), cfg.APIToken)
	tmplH := NewTemplates(db)
	subH := NewSubmissions(db)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/token", authH.Token)

		secured := v1.Use(JWTMiddleware([]byte(cfg.JWTSecret)))
		secured.GET("/templates/:guild", tmplH.List)
		secured.GET("/templates/:guild/:id/submissions", subH.ListByTemplate)
		secured.GET("/submissions/:id", subH.Get)
		secured.GET("/suggestions/:guild", subH.Suggestions)
	}
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

type Handlers struct {
	Auth      *AuthHandler
	Portfolio *PortfolioHandler
	Share     *ShareHandler
	RSS       *RSSHandler
}

type RouterConfig struct {
	JWT        *auth.JWTService
	Sessions   service.SessionStore
	Limiter    service.RateLimiter
	VoteLimit  int
	VoteWindow time.Duration
	Logger     logger.Logger
}

func NewRouter(h Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(cfg.Logger), ErrorMiddleware(cfg.Logger))

	authMiddleware := AuthMiddleware(cfg.JWT, cfg.Sessions)
	optionalAuth := OptionalAuthMiddleware(cfg.JWT, cfg.Sessions)
	voteLimit := RateLimitMiddleware(cfg.Limiter, "vote", cfg.VoteLimit, cfg.VoteWindow, cfg.Logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.GET("/feed.xml", h.RSS.GenerateRSS)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", h.Auth.SignUp)
			authGroup.POST("/signin", h.Auth.SignIn)
			authGroup.POST("/signout", authMiddleware, h.Auth.SignOut)
			authGroup.GET("/me", authMiddleware, h.Auth.Me)
		}

		portfolios := api.Group("/portfolios")
		{
			portfolios.GET("", h.Portfolio.ListPortfolios)
			portfolios.GET("/:id", optionalAuth, h.Portfolio.GetPortfolio)
			portfolios.GET("/:id/votes", optionalAuth, h.Portfolio.GetVotes)
			portfolios.GET("/:id/qr", h.Share.QRCode)

			private := portfolios.Group("")
			private.Use(authMiddleware)
			{
				private.POST("/new", h.Portfolio.CreateDraft)
				private.PUT("/:id", h.Portfolio.SavePortfolio)
				private.PATCH("/:id", h.Portfolio.EditPortfolio)
				private.DELETE("/:id", h.Portfolio.DeletePortfolio)
				private.POST("/:id/vote", voteLimit, h.Portfolio.Vote)
			}
		}
	}

	return router
}

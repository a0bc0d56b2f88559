package router

import (
	"net/http"
	"time"

	"github.com/Payphone-Digital/storefront/config"
	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/internal/handler"
	"github.com/Payphone-Digital/storefront/internal/middleware"
	"github.com/Payphone-Digital/storefront/internal/view"
	"github.com/gin-gonic/gin"
)

type Router struct {
	productHandler *handler.ProductHandler
	healthHandler  *handler.HealthHandler

	renderer     *view.Renderer
	counterStore middleware.CounterStore
	Config       *config.Config
}

func NewRouter(
	product *handler.ProductHandler,
	health *handler.HealthHandler,

	renderer *view.Renderer,
	counterStore middleware.CounterStore,
	config *config.Config,
) *Router {
	return &Router{
		productHandler: product,
		healthHandler:  health,

		renderer:     renderer,
		counterStore: counterStore,
		Config:       config,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if !r.Config.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = false

	// Use custom logging and recovery middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.SecureHeaders())

	router.GET(constants.RouteHealth, r.healthHandler.HealthCheck)
	router.StaticFS(constants.RouteStatic, http.FS(view.Static()))
	router.GET(constants.RouteFavicon, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	screens := router.Group("")
	{
		screens.Use(middleware.Locale(r.renderer.MatchLanguage))
		screens.Use(middleware.RateLimit(r.counterStore, r.Config.RateLimit.Request, time.Duration(r.Config.RateLimit.Duration)*time.Second))

		r.listRoutes(screens)
		r.detailRoutes(screens)
	}

	router.NoRoute(middleware.Locale(r.renderer.MatchLanguage), r.productHandler.NotFound)

	return router
}

// listRoutes defines the List Screen and its grid fragment
func (r *Router) listRoutes(rg *gin.RouterGroup) {
	rg.GET(constants.RouteList, r.productHandler.ListPage)
	rg.GET(constants.RouteListFragment, r.productHandler.ListFragment)
}

// detailRoutes defines the Detail Screen and its fragment
func (r *Router) detailRoutes(rg *gin.RouterGroup) {
	rg.GET(constants.RouteDetail, r.productHandler.DetailPage)
	rg.GET(constants.RouteDetailFragment, r.productHandler.DetailFragment)
}

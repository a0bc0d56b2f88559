package constants

import "time"

// Remote catalog defaults
const (
	DefaultCatalogBaseURL   = "https://fakestoreapi.com"
	DefaultCatalogTimeout   = 10 * time.Second
	DefaultBreakerThreshold = 5
	DefaultBreakerCooldown  = 30 * time.Second
	DefaultShutdownTimeout  = 15 * time.Second
	SlowRequestThreshold    = 2 * time.Second
)

// Remote catalog resources
const (
	CatalogProductsPath = "/products"
	CatalogProbePath    = "/products/1"
	HealthCheckCatalog  = "catalog"
	HealthCheckRedis    = "redis"
	BreakerCatalogList  = "catalog.list"
	BreakerCatalogItem  = "catalog.item"
)

// Screen routes and parameters
const (
	QueryParamSort = "sort"
	PathParamID    = "id"

	RouteList           = "/"
	RouteDetail         = "/:" + PathParamID
	RouteListFragment   = "/fragments/products"
	RouteDetailFragment = "/fragments/products/:" + PathParamID
	RouteHealth         = "/healthz"
	RouteStatic         = "/static"
	RouteFavicon        = "/favicon.ico"
)

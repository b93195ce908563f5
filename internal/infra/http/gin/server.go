package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"github.com/KarlGo0815/cbvgoodwill/internal/infra/config"
	"github.com/KarlGo0815/cbvgoodwill/internal/infra/obs"
)

type BookingHTTP interface {
	Check(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	List(c *gin.Context)
}

type PaymentHTTP interface {
	Record(c *gin.Context)
}

type CalendarHTTP interface {
	Feed(c *gin.Context)
}

type ReportsHTTP interface {
	Payments(c *gin.Context)
	LenderUsage(c *gin.Context)
	Prices(c *gin.Context)
}

type NotifyHTTP interface {
	Resend(c *gin.Context)
	Sent(c *gin.Context)
}

type CatalogHTTP interface {
	SaveLender(c *gin.Context)
	ListLenders(c *gin.Context)
	SaveApartment(c *gin.Context)
	ListApartments(c *gin.Context)
	SaveSeasonalRate(c *gin.Context)
}

type Handlers struct {
	Booking  BookingHTTP
	Payment  PaymentHTTP
	Calendar CalendarHTTP
	Reports  ReportsHTTP
	Notify   NotifyHTTP
	Catalog  CatalogHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	registerSwaggerRoutes(router)

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Booking != nil {
		api.POST("/bookings/check", h.Booking.Check)
		api.POST("/bookings", h.Booking.Create)
		api.PUT("/bookings/:id", h.Booking.Update)
		api.GET("/bookings", h.Booking.List)
	}
	if h.Payment != nil {
		api.POST("/payments", h.Payment.Record)
	}
	if h.Calendar != nil {
		api.GET("/calendar", h.Calendar.Feed)
	}
	if h.Reports != nil {
		api.GET("/reports/payments", h.Reports.Payments)
		api.GET("/reports/lender-usage", h.Reports.LenderUsage)
		api.GET("/reports/prices", h.Reports.Prices)
	}
	if h.Notify != nil {
		api.POST("/confirmations/:kind/:id/resend", h.Notify.Resend)
		api.GET("/confirmations", h.Notify.Sent)
	}
	if h.Catalog != nil {
		api.POST("/lenders", h.Catalog.SaveLender)
		api.PUT("/lenders/:id", h.Catalog.SaveLender)
		api.GET("/lenders", h.Catalog.ListLenders)
		api.POST("/apartments", h.Catalog.SaveApartment)
		api.PUT("/apartments/:id", h.Catalog.SaveApartment)
		api.GET("/apartments", h.Catalog.ListApartments)
		api.POST("/apartments/:id/seasonal-rates", h.Catalog.SaveSeasonalRate)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tempmotion/internal/http/handlers"
	"tempmotion/internal/http/middleware"
)

type ServerDeps struct {
	Quotes         handlers.QuoteService
	Slots          SlotService
	Bookings       handlers.BookingService
	Payments       handlers.PaymentService
	Places         handlers.PlaceSuggester
	Location       *time.Location
	Log            *logrus.Logger
	AllowedOrigins []string
}

// SlotService is the availability surface the transport needs: the blocked
// list for the date picker and the bookability check guarding submissions.
type SlotService interface {
	handlers.SlotChecker
	handlers.BlockedLister
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	if s.deps.Log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(s.deps.Log))
	r.Use(middleware.Logging(s.deps.Log))

	corsCfg := cors.DefaultConfig()
	if len(s.deps.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = s.deps.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Stripe-Signature")
	r.Use(cors.New(corsCfg))

	quoteHandler := handlers.NewQuoteHandler(s.deps.Quotes, s.deps.Slots, s.deps.Location)
	r.POST("/api/quote", quoteHandler.Create)

	availabilityHandler := handlers.NewAvailabilityHandler(s.deps.Slots)
	r.GET("/api/blocked", availabilityHandler.Blocked)

	bookingHandler := handlers.NewBookingHandler(s.deps.Bookings, s.deps.Slots)
	r.POST("/api/bookings", bookingHandler.Create)

	paymentHandler := handlers.NewPaymentHandler(s.deps.Payments, s.deps.Slots, s.deps.Location, s.deps.Log)
	r.POST("/api/checkout", paymentHandler.CreateCheckout)
	r.POST("/api/stripe-webhook", paymentHandler.Webhook)

	placesHandler := handlers.NewPlacesHandler(s.deps.Places)
	r.GET("/api/places", placesHandler.Autocomplete)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}

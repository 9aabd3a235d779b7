// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"tempmotion/internal/config"
	httptransport "tempmotion/internal/http"
	"tempmotion/internal/infra"
	"tempmotion/internal/maps"
	"tempmotion/internal/modules/availability"
	"tempmotion/internal/modules/booking"
	"tempmotion/internal/modules/payment"
	"tempmotion/internal/modules/places"
	"tempmotion/internal/modules/quote"
	"tempmotion/internal/notify"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}
	if lvl, err := logrus.ParseLevel(cfg.HTTP.LogLevel); err == nil {
		log.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.WithError(err).Fatal("database init failed")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey)
	if err != nil {
		log.WithError(err).Fatal("maps client init failed")
	}
	quoteSvc := quote.NewService(routeSvc, cfg.Pricing, cfg.Maps.QuoteTimeout)

	availabilityStore := availability.NewStore(dbPool)
	availabilitySvc, err := availability.NewService(availabilityStore, cfg.Schedule)
	if err != nil {
		log.WithError(err).Fatal("availability init failed")
	}

	bookingStore := booking.NewStore(dbPool)
	bookingSvc := booking.NewService(bookingStore)

	gateway := payment.NewGateway(cfg.Stripe)

	var sms notify.SMSGateway
	if cfg.Notify.TwilioAccountSID != "" {
		sms = notify.NewTwilioGateway(cfg.Notify.TwilioAccountSID, cfg.Notify.TwilioAuthToken, cfg.Notify.TwilioFrom)
	}
	var email notify.EmailSender
	if cfg.Notify.SMTPAddr != "" {
		email = notify.NewSMTPSender(cfg.Notify.SMTPAddr, cfg.Notify.SMTPFrom, cfg.Notify.SMTPUser, cfg.Notify.SMTPPass)
	}
	notifier := notify.NewOperatorNotifier(sms, email, cfg.Notify.OperatorPhone, cfg.Notify.OperatorEmail, log)

	paymentSvc := payment.NewService(quoteSvc, gateway, gateway, bookingSvc, notifier, log)

	placesProvider, err := maps.NewPlacesService(cfg.Maps.APIKey, maps.Bias{
		Lat:     cfg.Maps.BiasLat,
		Lng:     cfg.Maps.BiasLng,
		RadiusM: cfg.Maps.BiasRadiusM,
		Country: cfg.Maps.Country,
	})
	if err != nil {
		log.WithError(err).Fatal("places client init failed")
	}
	placesCache := places.NewStore(redisClient)
	placesSvc := places.NewService(placesProvider, placesCache, cfg.Maps.CacheTTL, log)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Quotes:         quoteSvc,
		Slots:          availabilitySvc,
		Bookings:       bookingSvc,
		Payments:       paymentSvc,
		Places:         placesSvc,
		Location:       availabilitySvc.Location(),
		Log:            log,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("shutdown was not clean")
		}
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server exited")
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/sirupsen/logrus"

	contracts "github.com/murkotick/opportunity-quote-service/internal/app/quote/contracts"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/domain"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/repo"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/sessions"
	"github.com/murkotick/opportunity-quote-service/internal/app/quote/usecases/generate_quote"
	"github.com/murkotick/opportunity-quote-service/internal/config"
	"github.com/murkotick/opportunity-quote-service/internal/pkg/clock"
	httpquote "github.com/murkotick/opportunity-quote-service/internal/transport/http/quote"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM.
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Info("shutdown signal received")
		cancel()
	}()

	opener, cleanup, err := newOpener(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("open store driver")
	}
	defer cleanup()

	interactor := generate_quote.NewInteractor(
		opener,
		repo.NewQuoteRepo(),
		repo.NewLineItemRepo(),
		domain.NewDiscountPolicy(cfg.PricingRegion),
		clock.RealClock{},
		log,
	)

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: httpquote.NewServer(interactor, log),
	}

	go func() {
		log.WithFields(logrus.Fields{
			"addr":   cfg.ListenAddr,
			"driver": cfg.StoreDriver,
		}).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http serve")
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("forced shutdown")
	}

	log.Info("server stopped")
}

// newOpener builds the configured session opener. The salesforce driver talks
// to the vendor store with each request's forwarded credentials; the spanner
// driver serves local development against the emulator.
func newOpener(ctx context.Context, cfg config.Config, log *logrus.Logger) (contracts.SessionOpener, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverSpanner:
		client, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
		if err != nil {
			return nil, nil, err
		}
		return &sessions.SpannerOpener{
			Client: client,
			Schema: sessions.DefaultSchema(),
		}, client.Close, nil

	default:
		return &sessions.SalesforceOpener{
			HTTP: &http.Client{Timeout: cfg.VendorTimeout},
			Log:  log,
		}, func() {}, nil
	}
}

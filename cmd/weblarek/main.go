package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	appservice "github.com/evgensan-b/weblarek/pkg/application/service"
	"github.com/evgensan-b/weblarek/pkg/domain/service"
	"github.com/evgensan-b/weblarek/pkg/infrastructure/catalogdata"
	"github.com/evgensan-b/weblarek/pkg/infrastructure/eventbus"
	"github.com/evgensan-b/weblarek/pkg/infrastructure/larek"
	"github.com/evgensan-b/weblarek/pkg/infrastructure/transport"
)

type config struct {
	ServeAddr    string        `envconfig:"serve_addr" default:":8080"`
	APIBaseURL   string        `envconfig:"api_base_url" default:"https://larek-api.nomoreparties.co/api/weblarek"`
	ProductsFile string        `envconfig:"products_file" default:"data/products.json"`
	HTTPTimeout  time.Duration `envconfig:"http_timeout" default:"10s"`
}

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  "weblarek",
		Usage: "headless web-larek storefront",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the storefront HTTP API",
				Action: serve,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("weblarek failed")
	}
}

func serve(c *cli.Context) error {
	var cfg config
	if err := envconfig.Process("weblarek", &cfg); err != nil {
		return err
	}

	fallback, err := catalogdata.LoadProducts(cfg.ProductsFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		log.Warn("Products file not found, starting with empty fallback catalog.")
	}

	bus := eventbus.New()
	catalog := service.NewCatalogService(bus)
	basket := service.NewBasketService(bus)
	buyer := service.NewBuyerService(bus)
	client := larek.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	checkout := appservice.NewCheckoutService(bus, catalog, basket, buyer, client, client, fallback)

	checkout.LoadCatalog(c.Context)

	srv := &http.Server{
		Addr:    cfg.ServeAddr,
		Handler: transport.Router(checkout, catalog, basket, buyer),
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{"addr": cfg.ServeAddr}).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

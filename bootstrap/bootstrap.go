package bootstrap

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fulldump/box"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mateusvmv/rent-vec/api"
	"github.com/mateusvmv/rent-vec/configuration"
	"github.com/mateusvmv/rent-vec/database"
	"github.com/mateusvmv/rent-vec/service"
)

var VERSION = "dev"

func Bootstrap(c *configuration.Configuration) (start, stop func()) {

	level, err := c.Level()
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}

	db := database.NewDatabase(&database.Config{
		MaxSlots: c.MaxSlots,
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
	})

	var limiter *rate.Limiter
	if c.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(c.RateLimit), max(c.RateBurst, 1))
	}

	b := api.Build(service.NewService(db), VERSION, c.ApiKey, c.ApiSecret)
	if c.EnableCompression {
		b.WithInterceptors(api.Compression)
	}
	b.WithInterceptors(
		api.AccessLog(log.New(os.Stdout, "ACCESS: ", log.Lshortfile)),
		api.PrettyErrorInterceptor,
		api.RecoverFromPanic,
		api.InterceptorUnavailable(db),
		api.RateLimit(limiter),
	)

	s := &http.Server{
		Addr:    c.HttpAddr,
		Handler: box.Box2Http(b),
	}

	ln, err := net.Listen("tcp", c.HttpAddr)
	if err != nil {
		log.Println("ERROR:", err.Error())
		os.Exit(-1)
	}
	log.Println("listening on", c.HttpAddr)

	stop = func() {
		db.Stop()
		s.Shutdown(context.Background())
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		for {
			sig := <-signalChan
			fmt.Println("Signal received", sig.String())
			stop()
		}
	}()

	start = func() {

		g := &errgroup.Group{}

		g.Go(db.Start)

		g.Go(func() error {
			err := s.Serve(ln)
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		})

		err := g.Wait()
		if err != nil {
			fmt.Println(err.Error())
		}
	}

	return
}

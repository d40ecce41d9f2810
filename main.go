package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talkincode/toughstore/config"
	"github.com/talkincode/toughstore/internal/adminapi"
	"github.com/talkincode/toughstore/internal/app"
	"github.com/talkincode/toughstore/internal/checkout"
	"github.com/talkincode/toughstore/internal/notify"
	"github.com/talkincode/toughstore/internal/store"
	"github.com/talkincode/toughstore/internal/storeapi"
	"github.com/talkincode/toughstore/internal/webserver"
)

var (
	confFile = flag.String("c", "", "config file path")
	initDb   = flag.Bool("initdb", false, "drop and recreate all tables, then exit")
	showVer  = flag.Bool("v", false, "print version and exit")
)

var version = "dev"

func main() {
	flag.Parse()

	if *showVer {
		fmt.Println("toughstore", version)
		return
	}

	cfg := config.LoadConfig(*confFile)
	cfg.InitDirs()

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initDb {
		application.InitDb()
		zap.L().Info("database initialized")
		return
	}

	bus := evbus.New()

	profiles := store.NewGormProfileRepository(application.DB())
	notifier, err := notify.NewService(bus, profiles, application)
	if err != nil {
		zap.L().Fatal("failed to create notifier", zap.Error(err))
	}
	if err := notifier.Start(); err != nil {
		zap.L().Fatal("failed to start notifier", zap.Error(err))
	}
	application.SetNotifier(notifier)

	checkoutSvc := checkout.NewService(application.DB(), application, bus)

	server := webserver.Init(cfg, application.DB())
	storeapi.InitRouter(cfg, checkoutSvc)
	adminapi.InitRouter(cfg, bus)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		return server.Start()
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			zap.L().Info("shutting down", zap.String("signal", sig.String()))
		case <-ctx.Done():
			return ctx.Err()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		zap.L().Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

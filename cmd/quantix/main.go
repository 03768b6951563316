package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wildfireconsulting/quantix/config"
	"github.com/wildfireconsulting/quantix/internal/adminapi"
	"github.com/wildfireconsulting/quantix/internal/app"
	"github.com/wildfireconsulting/quantix/internal/webserver"
)

var (
	h        bool
	x        bool
	initcfg  bool
	conffile string
)

func init() {
	flag.BoolVar(&h, "h", false, "help usage")
	flag.BoolVar(&x, "x", false, "debug mode")
	flag.BoolVar(&initcfg, "initcfg", false, "write default config file and exit")
	flag.StringVar(&conffile, "c", "quantix.yml", "config file")
}

func main() {
	flag.Parse()
	if h {
		flag.Usage()
		return
	}

	if initcfg {
		if err := config.SaveConfig(conffile, config.DefaultAppConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "write config failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("config written to %s\n", conffile)
		return
	}

	cfg, err := config.LoadConfig(conffile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	if x {
		cfg.Logger.Mode = "development"
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	server := webserver.Init(application)
	adminapi.InitRouter()

	go func() {
		if err := server.Listen(); err != nil {
			zap.S().Fatalf("webserver stopped: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	zap.S().Info("shutting down")
}

package main

import (
	"context"
	"fmt"
	"levguard/config"
	"levguard/core"
	"levguard/pkg/types"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
)

func main() {
	configureLog(config.Env.EnvName)

	// init context for graceful shutdown
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load config
	cfg, err := config.LoadConfig(config.Env.EnvName)
	if err != nil {
		log.Fatalf("fail to load config: %v", err)
	}
	serverEnv, err := config.LoadServerEnv()
	if err != nil {
		log.Fatalf("fail to load server env: %v", err)
	}

	// trap signal for graceful shutdown
	setupSignalHandler(cancel)

	// 📊 core: monitor + poller
	universe, err := core.Bootstrap(*cfg)
	if err != nil {
		log.Panicf("fail to bootstrap app: %v", err)
	}
	go func() {
		if err := core.Run(rootCtx, universe); err != nil {
			log.Errorf("Runtime error: %v", err)
			cancel()
		}
	}()

	// 🌩️ fiber: rest API + dashboard
	fApp := core.SetupFiberApp(universe)
	go func() {
		<-rootCtx.Done()
		core.ShutdownFiberApp(fApp)
	}()
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, serverEnv.Port)
	log.Infof("🌐 listening on %s", addr)
	if err := fApp.Listen(addr); err != nil {
		log.Panic(err)
	}
	log.Info("👋 bye")
}

func configureLog(envName types.EnvName) {
	log.SetLevel(log.InfoLevel)
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if envName == types.EnvLocal || envName == types.EnvDev {
		log.SetLevel(log.DebugLevel)
	}
}

func setupSignalHandler(cancel context.CancelFunc) {
	sigC := make(chan os.Signal, 1)
	signal.Notify(sigC, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigC
		log.Info("🚩 received shutdown signal")
		cancel()
	}()
}

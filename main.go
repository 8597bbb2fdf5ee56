package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/moyoez/docscan-go/api"
	"github.com/moyoez/docscan-go/api/models"
	"github.com/moyoez/docscan-go/api/notifyhub"
	"github.com/moyoez/docscan-go/discover"
	"github.com/moyoez/docscan-go/notify"
	"github.com/moyoez/docscan-go/share"
	"github.com/moyoez/docscan-go/tool"
	"github.com/moyoez/docscan-go/transfer"
	"github.com/moyoez/docscan-go/types"
)

// EnvServerEndpoint overrides the saved endpoint for this process only.
const EnvServerEndpoint = "DOCSCAN_SERVER"

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		tool.DefaultLogger.Warnf("Failed to load .env: %v", err)
	}
	cfg := tool.SetFlags()

	// initialize logger
	tool.InitLogger()
	tool.SetLogMode(cfg.Log)

	if _, err := tool.LoadConfig(cfg.UseConfigPath); err != nil {
		tool.DefaultLogger.Fatalf("%v", err)
	}
	appCfg := tool.ApplyFlagOverrides(cfg)
	notify.SetUseNotify(appCfg.Notify)
	tool.InitHTTPClients(tool.InterfaceBindAddr(appCfg.NetworkInterface))

	// session start: the saved endpoint is active until discovery or a save replaces it
	if env := os.Getenv(EnvServerEndpoint); env != "" {
		share.SetActiveEndpoint(env, types.EndpointSourceEnv)
	} else {
		share.SeedFromSaved(appCfg.ServerEndpoint, types.EndpointSourceSaved)
	}

	models.SetClientFactory(newClients, appCfg)

	if ran, code := runCommand(cfg); ran {
		os.Exit(code)
	}

	hub := notifyhub.New()
	notify.SetHub(hub)
	apiServer := api.NewServer("127.0.0.1", appCfg.ApiPort, hub)
	go func() {
		if err := apiServer.Start(); err != nil {
			tool.DefaultLogger.Fatalf("API server startup failed: %v", err)
		}
	}()

	// discover once at startup, like opening the preview screen
	go models.GetScanner().ScanNow(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	tool.DefaultLogger.Info("Shutting down control API")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		tool.DefaultLogger.Errorf("Control API shutdown failed: %v", err)
	}
}

func newClients(cfg types.AppConfig) (models.Scanner, models.Uploader, share.Sharer) {
	return discover.NewScanner(cfg), transfer.NewClient(), share.NewFolderSharer(cfg.ShareFolder)
}

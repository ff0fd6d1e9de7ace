package main

import (
	"context"
	"flag"
	"time"

	"dineassist-backend/internal/api"
	"dineassist-backend/internal/components/configutil"
	"dineassist-backend/internal/components/serviceutil"
	"dineassist-backend/internal/components/telemetry"
	"dineassist-backend/internal/dining"

	"github.com/gin-gonic/gin"
)

type ServerConfig struct {
	Port                  int `json:"port"`
	RequestTimeoutSeconds int `json:"request_timeout_seconds"`
}

type Config struct {
	Portal dining.PortalConfig  `json:"portal"`
	Search dining.SearchConfig  `json:"search"`
	Server ServerConfig         `json:"server"`
	Log    telemetry.LogConfig  `json:"log"`
	Otlp   telemetry.OtlpConfig `json:"otlp"`
}

const (
	envPortalUrl  = "DINING_PORTAL_URL"
	envPort       = "DINING_PORT"
	envLogBackend = "DINING_LOG_BACKEND"
)

func readConfig(path string) (Config, error) {
	err := configutil.LoadDotenv(".env", ".env.local")
	if err != nil {
		return Config{}, err
	}

	config, err := configutil.ReadConfigOrDefault[Config](path)
	if err != nil {
		return Config{}, err
	}

	config.Portal.BaseUrl = configutil.GetEnv(envPortalUrl, config.Portal.BaseUrl)
	config.Server.Port = configutil.GetInt(envPort, config.Server.Port)
	config.Log.Backend = configutil.GetEnv(envLogBackend, config.Log.Backend)

	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.RequestTimeoutSeconds == 0 {
		config.Server.RequestTimeoutSeconds = 60
	}
	return config, nil
}

func main() {
	configPath := flag.String("config", "config.json5", "path to the configuration file")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	config, err := readConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if config.Portal.BaseUrl == "" {
		serviceutil.Fatal("failed to read config", errMissingPortalUrl)
	}

	tel, flush, err := telemetry.NewAPI(config.Log)
	if err != nil {
		serviceutil.Fatal("failed to setup logging", err)
	}
	defer flush()

	otel, err := telemetry.SetupOtel(ctx, "dining-server", config.Otlp, tel)
	if err != nil {
		serviceutil.Fatal("failed to setup otel", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := otel.Shutdown(shutdownCtx)
		if err != nil {
			tel.ReportBroken("otel.shutdown", err)
		}
	}()
	telemetry.InstrumentPerfStats(ctx, tel)

	catalog := dining.NewCatalog(config.Search.CatalogOptions(config.Portal), tel)

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewHandler(catalog), tel, api.RouterOptions{
		RequestTimeout: time.Duration(config.Server.RequestTimeoutSeconds) * time.Second,
	})

	err = serviceutil.StartHttpServer(ctx, config.Server.Port, router)
	if err != nil {
		serviceutil.Fatal("failed to serve http", err)
	}
}

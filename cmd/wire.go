package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/bnema/nmoo-cli/internal/adapters/editor"
	objectsrender "github.com/bnema/nmoo-cli/internal/adapters/render/objects"
	tomlrepo "github.com/bnema/nmoo-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/nmoo-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/nmoo-cli/internal/adapters/secrets/file"
	"github.com/bnema/nmoo-cli/internal/adapters/wsconn"
	"github.com/bnema/nmoo-cli/internal/application"
	"github.com/bnema/nmoo-cli/internal/config"
	"github.com/bnema/nmoo-cli/internal/logging"
	"github.com/bnema/nmoo-cli/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var errNoServerURL = errors.New("no server URL: pass --server, set server.url in ~/.nmoo/config.toml or NMOO_SERVER_URL")

type app struct {
	config         *viper.Viper
	logger         *zap.Logger
	profiles       *application.ProfileService
	secretStore    ports.SecretStore
	objectRenderer func(application.ObjectView, objectsrender.RenderOptions) (string, error)
	editor         ports.Editor
	dialer         ports.Dialer
	httpClient     *http.Client
	serverURL      string
	logPath        string
	editListen     string
	captureWait    time.Duration
}

func wireApp() (*app, error) {
	cfg := viper.New()
	if err := config.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logPath := cfg.GetString(config.LogPathKey)
	logger, err := logging.New(logPath, cfg.GetString(config.LogLevelKey))
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	secretStore, err := wireSecretStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	captureWait, err := time.ParseDuration(envOrDefault("NMOO_CAPTURE_WAIT", application.DefaultCaptureWait.String()))
	if err != nil {
		return nil, fmt.Errorf("parse NMOO_CAPTURE_WAIT: %w", err)
	}

	return &app{
		config:         cfg,
		logger:         logger,
		profiles:       application.NewProfileService(repo, secretStore),
		secretStore:    secretStore,
		objectRenderer: objectsrender.Render,
		editor:         editor.NewExternal(editor.ResolveCommand(cfg.GetString(config.EditorCommandKey))),
		dialer:         wsconn.Dialer{Logger: logger.Named("ws")},
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		serverURL:      strings.TrimSpace(cfg.GetString(config.ServerURLKey)),
		logPath:        logPath,
		editListen:     cfg.GetString(config.EditListenKey),
		captureWait:    captureWait,
	}, nil
}

// wireSecretStore uses pass with a file fallback unless secrets.backend is
// "file".
func wireSecretStore(cfg *viper.Viper, logger *zap.Logger) (ports.SecretStore, error) {
	dir := cfg.GetString(config.SecretsDirKey)

	switch backend := strings.ToLower(strings.TrimSpace(cfg.GetString(config.SecretsBackendKey))); backend {
	case "", "auto":
		return chainstore.NewPassFirstWithFileFallback(dir, logger.Named("secrets"))
	case "file":
		return filestore.NewStore(dir), nil
	default:
		return nil, fmt.Errorf("unknown secrets backend %q (want auto or file)", backend)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

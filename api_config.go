package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cor0nius/cityreg/internal/citymatch"
	"github.com/cor0nius/cityreg/internal/clock"
	"github.com/cor0nius/cityreg/internal/registration"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

type apiConfig struct {
	dbQueries         dbQuerier
	sessions          registration.SessionStore
	registrations     *registration.Service
	catalog           *citymatch.Catalog
	clock             clock.Clock
	dbURL             string
	redisURL          string
	citiesFile        string
	fuzzyMaxDistance  int
	botUsername       string
	admins            map[int64]struct{}
	sessionTTL        time.Duration
	attemptTTL        time.Duration
	statsTopN         int
	schedulerInterval time.Duration
	port              string
	devMode           bool
	logger            *slog.Logger
}

// getRequiredEnv retrieves a non-empty environment variable by key.
func getRequiredEnv(key string) (string, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return "", fmt.Errorf("environment variable %s must be set", key)
	}
	return val, nil
}

// getEnv retrieves an environment variable by key, with a fallback value.
func getEnv(key, fallback string, logger *slog.Logger) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer, with a fallback value.
func getEnvAsInt(key string, fallback int, logger *slog.Logger) int {
	valStr, ok := os.LookupEnv(key)
	if !ok || valStr == "" {
		logger.Info("environment variable not set, using fallback", "key", key, "fallback", fallback)
		return fallback
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		logger.Warn("invalid integer value for environment variable, using fallback", "key", key, "value", valStr, "error", err)
		return fallback
	}
	return val
}

// parseAdminIDs merges the owner id and a comma separated list of admin ids.
// Blank entries are skipped; anything else that is not an integer is an error.
func parseAdminIDs(owner, list string) (map[int64]struct{}, error) {
	admins := make(map[int64]struct{})
	var errs []error
	for _, raw := range append([]string{owner}, strings.Split(list, ",")...) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid admin id %q: %w", raw, err))
			continue
		}
		admins[id] = struct{}{}
	}
	return admins, errors.Join(errs...)
}

func (cfg *apiConfig) isAdmin(userID int64) bool {
	_, ok := cfg.admins[userID]
	return ok
}

func newLogger(w io.Writer, devMode bool) *slog.Logger {
	if devMode {
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

// NewAPIConfig reads the environment and returns a configuration with no
// open connections. ConnectDB and ConnectSessions finish the wiring.
func NewAPIConfig(w io.Writer) (*apiConfig, error) {
	devMode, err := strconv.ParseBool(os.Getenv("DEV_MODE"))
	if err != nil {
		devMode = false
	}
	logger := newLogger(w, devMode)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	dbURL, err := getRequiredEnv("DB_URL")
	if err != nil {
		return nil, err
	}

	admins, err := parseAdminIDs(os.Getenv("BOT_OWNER_ID"), os.Getenv("BOT_ADMIN_IDS"))
	if err != nil {
		return nil, err
	}
	if len(admins) == 0 {
		logger.Warn("no admin ids configured, admin endpoints will reject every request")
	}

	cfg := &apiConfig{
		clock:             clock.NewSystem(),
		dbURL:             dbURL,
		redisURL:          os.Getenv("REDIS_URL"),
		citiesFile:        getEnv("CITIES_FILE", "data/cities.json", logger),
		fuzzyMaxDistance:  getEnvAsInt("FUZZY_MAX_DISTANCE", citymatch.DefaultMaxDistance, logger),
		botUsername:       strings.TrimPrefix(os.Getenv("BOT_USERNAME"), "@"),
		admins:            admins,
		sessionTTL:        time.Duration(getEnvAsInt("SESSION_TTL_HOURS", 24, logger)) * time.Hour,
		attemptTTL:        time.Duration(getEnvAsInt("ATTEMPT_TTL_HOURS", 168, logger)) * time.Hour,
		statsTopN:         getEnvAsInt("STATS_TOP_N", 20, logger),
		schedulerInterval: time.Duration(getEnvAsInt("STATS_INTERVAL_MIN", 5, logger)) * time.Minute,
		port:              getEnv("PORT", "8080", logger),
		devMode:           devMode,
		logger:            logger,
	}
	return cfg, nil
}

// LoadCatalog reads the city list and builds the registration service on
// top of the already connected stores.
func (cfg *apiConfig) LoadCatalog() error {
	catalog, err := citymatch.LoadCatalog(cfg.citiesFile)
	if err != nil {
		return fmt.Errorf("could not load city catalog: %w", err)
	}
	cfg.catalog = catalog
	cfg.logger.Info("city catalog loaded", "file", cfg.citiesFile, "cities", catalog.Len())

	cfg.registrations = cfg.newRegistrationService(citymatch.NewResolver(catalog, citymatch.WithMaxDistance(cfg.fuzzyMaxDistance)))
	return nil
}

func (cfg *apiConfig) newRegistrationService(resolver registration.Resolver) *registration.Service {
	store := &pgStore{db: cfg.dbQueries, clock: cfg.clock}
	return registration.NewService(store, store, store, cfg.sessions, resolver,
		registration.WithLogger(cfg.logger),
		registration.WithObserver(promObserver{}),
		registration.WithClock(cfg.clock),
	)
}

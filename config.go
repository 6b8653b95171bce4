package main

import (
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"kanban-api/api"
)

type config struct {
	Debug        bool
	ListenAddr   string
	ConnStr      string
	TasksTable   string
	CommandQueue string
	CatalogFile  string

	RedisConn   string
	TasksTTL    time.Duration
	DeduperTTL  time.Duration
	Dispatch    api.DispatcherConfig
	MaxBodySize int64
}

// loadConfig reads the service configuration through getenv, normally
// os.Getenv.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := config{
		ListenAddr:   ":8080",
		ConnStr:      getenv("STORAGE_CONNECTION_STRING"),
		TasksTable:   getenv("TASKS_TABLE"),
		CommandQueue: getenv("COMMAND_QUEUE"),
		CatalogFile:  getenv("BOARD_CATALOG_FILE"),
		RedisConn:    getenv("REDIS_CONNECTION_STRING"),
		MaxBodySize:  64 * 1024,
	}
	if dbg, err := strconv.ParseBool(getenv("DEBUG")); err == nil {
		cfg.Debug = dbg
	}
	if port := getenv("FUNCTIONS_CUSTOMHANDLER_PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	if cfg.ConnStr == "" || cfg.TasksTable == "" || cfg.CommandQueue == "" {
		return cfg, errors.New("missing storage config")
	}
	if cfg.RedisConn == "" {
		return cfg, errors.New("missing redis config")
	}

	var err error
	if cfg.TasksTTL, err = envDur(getenv, "TASKS_CACHE_TTL", 30*time.Second); err != nil {
		return cfg, err
	}
	if cfg.DeduperTTL, err = envDur(getenv, "DEDUPER_TTL", 24*time.Hour); err != nil {
		return cfg, err
	}
	if cfg.DeduperTTL <= 0 {
		return cfg, errors.New("invalid DEDUPER_TTL: must be greater than zero")
	}
	if cfg.Dispatch.Workers, err = envInt(getenv, "DISPATCH_WORKERS", 8); err != nil {
		return cfg, err
	}
	if cfg.Dispatch.Buffer, err = envInt(getenv, "DISPATCH_BUFFER", 1024); err != nil {
		return cfg, err
	}
	if cfg.Dispatch.EnqueueTimeout, err = envDur(getenv, "DISPATCH_TIMEOUT", 60*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Dispatch.HandoffTimeout, err = envDur(getenv, "DISPATCH_HANDOFF_TIMEOUT", 50*time.Millisecond); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func envInt(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return n, nil
}

func envDur(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

// redisOptions accepts a redis:// URL or an Azure style
// "host:port,password=...,ssl=True" connection string.
func redisOptions(conn string) *redis.Options {
	if opts, err := redis.ParseURL(conn); err == nil {
		return opts
	}
	parts := strings.Split(conn, ",")
	opts := &redis.Options{Addr: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(kv[0])) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.EqualFold(strings.TrimSpace(kv[1]), "true") {
				opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
			}
		}
	}
	return opts
}

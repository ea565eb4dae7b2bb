package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kazz187/fieldguild/backend/internal/config"
	"github.com/kazz187/fieldguild/backend/pkg/clog"
	"github.com/kazz187/fieldguild/backend/pkg/storage"

	server "github.com/kazz187/fieldguild/backend/internal"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewHTTPTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	store, docs, err := openStorage(ctx, config.StorageEnvFromEnv(env))
	if err != nil {
		slog.Error("failed to open storage", "type", env.StorageEnv.Type, "error", err)
		os.Exit(1)
	}

	app := server.NewApp(env, store, docs)
	if err := app.Run(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStorage returns the session store and the store the farm document is
// read from. Outside S3 the document is a file relative to the working
// directory.
func openStorage(ctx context.Context, env *config.StorageEnv) (storage.Storage, storage.Storage, error) {
	switch env.Type {
	case "s3":
		s3, err := storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region)
		if err != nil {
			return nil, nil, err
		}
		return s3, s3, nil
	case "local":
		local, err := storage.NewLocalStorage(env.BaseDir)
		if err != nil {
			return nil, nil, err
		}
		docs, err := storage.NewLocalStorage(".")
		if err != nil {
			return nil, nil, err
		}
		return local, docs, nil
	default:
		docs, err := storage.NewLocalStorage(".")
		if err != nil {
			return nil, nil, err
		}
		return storage.NewMemoryStorage(), docs, nil
	}
}

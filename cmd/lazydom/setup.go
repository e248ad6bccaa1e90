package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/lazydom/internal/config"
	"github.com/vango-dev/lazydom/internal/errors"
	"github.com/vango-dev/lazydom/pkg/snapshot"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// loadConfig reads the config at path, or ./lazydom.json when path is empty
// and the file exists, or defaults otherwise.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	switch {
	case path != "":
		cfg, err = config.LoadFile(path)
	case config.Exists("."):
		cfg, err = config.Load(".")
	default:
		cfg = config.New()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the log section.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var h slog.Handler
	if cfg.Log.Format == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// newTracer returns the configured tracer, or a no-op tracer when tracing
// is disabled.
func newTracer(cfg *config.Config) trace.Tracer {
	if !cfg.Tracing.Enabled {
		return noop.NewTracerProvider().Tracer(cfg.Tracing.TracerName)
	}
	return otel.Tracer(cfg.Tracing.TracerName)
}

// newStore returns the S3 store when a bucket is configured and the file
// store otherwise.
func newStore(ctx context.Context, cfg *config.Config) (snapshot.Store, error) {
	sc := cfg.Snapshot
	if sc.Bucket == "" {
		return snapshot.NewFileStore(cfg.SnapshotDir())
	}
	client, err := newS3Client(ctx, sc)
	if err != nil {
		return nil, err
	}
	return snapshot.NewS3Store(client, sc.Bucket, sc.Prefix), nil
}

// newS3Client builds an S3 client from the SDK's default configuration
// chain (environment, shared config and profiles, SSO, instance metadata).
// A custom endpoint switches to path-style addressing.
func newS3Client(ctx context.Context, sc config.SnapshotConfig) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(sc.Region))
	if err != nil {
		return nil, errors.New("L060").
			WithDetail("could not load AWS configuration for S3 snapshots").
			Wrap(err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if sc.Endpoint != "" {
			o.BaseEndpoint = aws.String(sc.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

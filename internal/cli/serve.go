package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/autolayout/internal/server"
	"github.com/matzehuels/autolayout/pkg/cache"
	"github.com/matzehuels/autolayout/pkg/metrics"
	"github.com/matzehuels/autolayout/pkg/observability"
)

// serveOptions are the flags of the serve command.
type serveOptions struct {
	addr      string
	redis     cache.RedisConfig
	mongo     cache.MongoConfig
	keyPrefix string
	metrics   bool
	timeout   time.Duration
	maxBody   int64
	engine    engineFlags
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP service",
		Long: `Run the layout HTTP service.

Results are cached in Redis (--redis), MongoDB (--mongo) or the local cache
directory, in that order of preference. Prometheus metrics are served on
/metrics unless --metrics=false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "listen address")
	f.StringVar(&opts.redis.Addr, "redis", "", "Redis address for the result cache")
	f.StringVar(&opts.redis.Password, "redis-password", "", "Redis password")
	f.IntVar(&opts.redis.DB, "redis-db", 0, "Redis database")
	f.StringVar(&opts.mongo.URI, "mongo", "", "MongoDB URI for the result cache")
	f.StringVar(&opts.mongo.Database, "mongo-db", "", "MongoDB database (default autolayout)")
	f.StringVar(&opts.keyPrefix, "key-prefix", "", "prefix for cache keys in a shared backend")
	f.BoolVar(&opts.metrics, "metrics", true, "serve Prometheus metrics on /metrics")
	f.DurationVar(&opts.timeout, "timeout", server.DefaultTimeout, "limit for one layout run")
	f.Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBodyBytes, "request body limit in bytes")
	f.StringVarP(&opts.engine.config, "config", "c", "", "engine config file (TOML)")
	f.StringVarP(&opts.engine.style, "style", "s", "", "default style preset")
	f.BoolVar(&opts.engine.noCache, "no-cache", false, "disable the result cache")
	return cmd
}

func (c *CLI) serve(ctx context.Context, opts serveOptions) error {
	cfg, err := opts.engine.engineConfig("")
	if err != nil {
		return err
	}
	cc, backend, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}

	var reg *metrics.Registry
	if opts.metrics {
		reg = metrics.NewRegistry()
		observability.SetLayoutHooks(reg)
		observability.SetCacheHooks(reg)
		observability.SetHTTPHooks(reg)
		defer observability.Reset()
	}

	var keyer cache.Keyer
	if opts.keyPrefix != "" {
		keyer = cache.NewScopedKeyer(nil, opts.keyPrefix)
	}

	srv, err := server.New(server.Options{
		Config:       cfg,
		Cache:        cache.NewObserved(cache.NewCompressed(cc)),
		Keyer:        keyer,
		Metrics:      reg,
		Logger:       c.Logger,
		MaxBodyBytes: opts.maxBody,
		Timeout:      opts.timeout,
	})
	if err != nil {
		cc.Close()
		return err
	}
	defer srv.Close()

	printSuccess("Serving layouts")
	printKeyValue("address", opts.addr)
	printKeyValue("style", srvStyle(cfg.Style))
	printKeyValue("cache", backend)
	printKeyValue("metrics", fmt.Sprint(opts.metrics))
	return srv.ListenAndServe(ctx, opts.addr)
}

// serveCache connects the configured backend and describes it.
func (c *CLI) serveCache(ctx context.Context, opts serveOptions) (cache.Cache, string, error) {
	switch {
	case opts.engine.noCache:
		return cache.NewNullCache(), "disabled", nil
	case opts.redis.Addr != "":
		rc, err := cache.NewRedisCache(ctx, opts.redis)
		if err != nil {
			return nil, "", fmt.Errorf("connect redis: %w", err)
		}
		return rc, "redis " + opts.redis.Addr, nil
	case opts.mongo.URI != "":
		mc, err := cache.NewMongoCache(ctx, opts.mongo)
		if err != nil {
			return nil, "", fmt.Errorf("connect mongo: %w", err)
		}
		return mc, "mongo", nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), "disabled", nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, "", err
	}
	return fc, "file " + dir, nil
}

func srvStyle(s string) string {
	if s == "" {
		return "flowchart"
	}
	return s
}

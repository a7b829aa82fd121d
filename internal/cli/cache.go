package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RaiVaibhav/IGitt/internal/config"
)

// clearer is implemented by the persistent cache backends.
type clearer interface {
	Clear(ctx context.Context) (int, error)
}

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the HTTP response cache",
		Long: `Manage the HTTP response cache.

igitt remembers ETag and Last-Modified validators of GET responses so that
unchanged resources are answered with 304 Not Modified, which does not count
against the rate limit. The [cache] section of the config file selects the
backend: memory (default), file, redis or none.`,
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached HTTP responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend := c.config.Cache.Backend
			if backend == config.CacheMemory || backend == config.CacheNone {
				printInfo("The %s cache keeps nothing between runs", backend)
				return nil
			}

			store, err := c.newCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			cl, ok := store.(clearer)
			if !ok {
				printInfo("Cache is empty")
				return nil
			}
			count, err := cl.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			location, _ := c.cacheLocation()
			printDetail("Location: %s", location)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached responses are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := c.cacheLocation()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, location)
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the
// file cache, a redis URL for redis.
func (c *CLI) cacheLocation() (string, error) {
	cfg := c.config.Cache
	switch cfg.Backend {
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d", cfg.RedisAddr, cfg.RedisDB), nil
	case config.CacheFile:
		dir, err := c.cacheDir()
		if err != nil {
			return "", fmt.Errorf("get cache dir: %w", err)
		}
		return dir, nil
	}
	return string(cfg.Backend), nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/paperforge/internal/llm"
	"github.com/ppiankov/paperforge/internal/logging"
	"github.com/ppiankov/paperforge/internal/polish"
	"github.com/ppiankov/paperforge/internal/ratelimit"
	"github.com/ppiankov/paperforge/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the polish endpoint",
	Long: `Serve exposes POST /api/polish-text, which rewrites one field with the
configured language model. Requests are rate limited per client
(CF-Connecting-IP) in a fixed window.

Example:
  PAPERFORGE_LLM_PROVIDER=openai OPENAI_API_KEY=sk-... paperforge serve
  paperforge serve --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("init llm: %w", err)
	}
	var polisher server.Polisher
	if provider != nil {
		polisher = polish.NewEngine(provider)
		log.Info("polish model configured", "provider", provider.Name(), "model", cfg.LLM.Model)
	} else {
		log.Warn("no llm provider configured; polish requests will fail")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if provider != nil {
		checkProvider(ctx, provider, log)
	}

	limiter, err := ratelimit.New(ctx, cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("init rate limiter: %w", err)
	}

	srv := server.New(server.Config{
		Polisher: polisher,
		Limiter:  limiter,
		Logger:   log,
		Mode:     cfg.Server.Mode,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx, addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		if c, ok := limiter.(io.Closer); ok {
			return c.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	log.Info("server stopped")
	return nil
}

const providerCheckTimeout = 10 * time.Second

// checkProvider warns when the configured model cannot be reached at startup.
// The server still starts; polish requests fail until the provider recovers.
func checkProvider(ctx context.Context, p llm.Provider, log *logging.Logger) bool {
	ctx, cancel := context.WithTimeout(ctx, providerCheckTimeout)
	defer cancel()

	if !p.IsAvailable(ctx) {
		log.Warn("llm provider unreachable", "provider", p.Name())
		return false
	}
	log.Debug("llm provider reachable", "provider", p.Name())
	return true
}

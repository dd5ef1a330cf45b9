package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/paperforge/internal/logging"
	"github.com/ppiankov/paperforge/internal/model"
	"github.com/ppiankov/paperforge/internal/store"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "paperforge",
	Short: "Paperforge - layered position paper authoring",
	Long: `Paperforge helps a delegate write a Model UN position paper in layers.

Research answers (comprehension) are restated as rough ideas (idea formation),
turned into sentence-level building blocks (paragraph components) and finally
assembled into a Markdown paper.

Each layer can be autofilled from the one below it. Local transforms always
work offline; an optional language model only polishes the wording and never
decides content.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "paperforge v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.paperforge/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("store-dir", "", "draft store directory (overrides store.dir)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("store.dir", rootCmd.PersistentFlags().Lookup("store-dir"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.paperforge")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// PAPERFORGE_RATE_LIMIT_BACKEND -> rate_limit.backend
	viper.SetEnvPrefix("PAPERFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(cfg *model.Config) {
	viper.SetDefault("server.addr", cfg.Server.Addr)
	viper.SetDefault("server.mode", cfg.Server.Mode)

	viper.SetDefault("rate_limit.backend", cfg.RateLimit.Backend)
	viper.SetDefault("rate_limit.max_requests", cfg.RateLimit.MaxRequests)
	viper.SetDefault("rate_limit.window", cfg.RateLimit.Window)
	viper.SetDefault("rate_limit.redis_addr", cfg.RateLimit.RedisAddr)
	viper.SetDefault("rate_limit.redis_prefix", cfg.RateLimit.RedisPrefix)

	viper.SetDefault("llm.provider", cfg.LLM.Provider)
	viper.SetDefault("llm.model", cfg.LLM.Model)
	viper.SetDefault("llm.api_key", cfg.LLM.APIKey)
	viper.SetDefault("llm.base_url", cfg.LLM.BaseURL)
	viper.SetDefault("llm.account_id", cfg.LLM.AccountID)
	viper.SetDefault("llm.timeout", cfg.LLM.Timeout)
	viper.SetDefault("llm.max_tokens", cfg.LLM.MaxTokens)

	viper.SetDefault("polish.endpoint_url", cfg.Polish.EndpointURL)
	viper.SetDefault("polish.timeout", cfg.Polish.Timeout)
	viper.SetDefault("polish.requests_per_minute", cfg.Polish.RequestsPerMinute)
	viper.SetDefault("polish.http_proxy", cfg.Polish.HTTPProxy)
	viper.SetDefault("polish.https_proxy", cfg.Polish.HTTPSProxy)

	viper.SetDefault("store.backend", cfg.Store.Backend)
	viper.SetDefault("store.dir", cfg.Store.Dir)
	viper.SetDefault("store.dsn", cfg.Store.DSN)

	viper.SetDefault("log.mode", cfg.Log.Mode)
}

// loadConfig merges defaults, config file, environment and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyProviderEnv(&cfg.LLM)
	return cfg, nil
}

// applyProviderEnv fills provider credentials from their conventional variables
func applyProviderEnv(c *model.LLMConfig) {
	switch strings.ToLower(c.Provider) {
	case "openai":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	case "anthropic", "claude":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	case "ollama":
		if c.BaseURL == "" {
			c.BaseURL = os.Getenv("OLLAMA_BASE_URL")
		}
	case "cloudflare", "workers-ai":
		if c.APIKey == "" {
			c.APIKey = os.Getenv("CLOUDFLARE_API_TOKEN")
		}
		if c.AccountID == "" {
			c.AccountID = os.Getenv("CLOUDFLARE_ACCOUNT_ID")
		}
	}
}

func newLogger(cfg *model.Config) (*logging.Logger, error) {
	log, err := logging.New(cfg.Log.Mode, verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// session bundles what most draft commands need
type session struct {
	cfg   *model.Config
	log   *logging.Logger
	store store.Store
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &session{cfg: cfg, log: log, store: s}, nil
}

func (s *session) Close() {
	_ = s.store.Close()
	s.log.Sync()
}

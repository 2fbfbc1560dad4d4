package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/maximbilan/promptrelay/internal/config"
	"github.com/maximbilan/promptrelay/internal/logging"
	"github.com/maximbilan/promptrelay/internal/provider"
	"github.com/maximbilan/promptrelay/internal/relay"
	"github.com/maximbilan/promptrelay/internal/server"
	"github.com/maximbilan/promptrelay/internal/workspace"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagHost      string
	flagPort      int
	flagEnvFile   string
	flagLogLevel  string
	flagWorkspace bool
)

var rootCmd = &cobra.Command{
	Use:   "promptrelay",
	Short: "HTTP relay from screen descriptions to a hosted chat model",
	Long: `promptrelay serves test-case generation, React code generation and screenshot
evaluation over HTTP. Every request is turned into a prompt for Azure OpenAI
(or OpenAI / Anthropic) and the model's answer is returned as JSON.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var setCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a config value",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := config.Set(args[0], args[1]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		value := args[1]
		if isSensitiveConfigKey(args[0]) {
			value = maskSecret(value)
		}
		fmt.Printf("Set %s = %s\n", args[0], value)
	},
}

var getCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a config value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		value := config.Get(args[0])
		if isSensitiveConfigKey(args[0]) {
			fmt.Printf("%s = %s\n", args[0], maskSecret(fmt.Sprint(value)))
			return
		}
		fmt.Printf("%s = %v\n", args[0], value)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if err := config.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Configuration initialized at %s\n", filepath.Join(home, ".promptrelay", "config.yaml"))
		fmt.Println("Set your endpoint and key with:")
		fmt.Println("  promptrelay config set endpoint https://<resource>.cognitiveservices.azure.com/")
		fmt.Println("  promptrelay config set api_key YOUR_KEY")
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagHost, "host", "", "interface to listen on (default 0.0.0.0)")
	rootCmd.Flags().IntVar(&flagPort, "port", 0, "port to listen on (default 8000)")
	rootCmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading configuration")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.Flags().BoolVar(&flagWorkspace, "workspace", false, "enable the /api screenshot and file routes")

	configCmd.AddCommand(setCmd)
	configCmd.AddCommand(getCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(flagEnvFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	logging.Setup(os.Stdout, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	p, err := provider.New(providerSettings(cfg))
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	r, err := relay.New(p, cfg.Model)
	if err != nil {
		return err
	}

	var ws *workspace.Workspace
	if cfg.WorkspaceEnabled {
		ws, err = workspace.New(cfg.WorkspaceRoot, cfg.ImagesDir)
		if err != nil {
			return err
		}
		log.Info().Str("root", ws.Root()).Str("images_dir", ws.ImagesDir()).Msg("workspace routes enabled")
	}

	srv, err := server.New(server.Config{
		Addr:           cfg.Addr(),
		RequestTimeout: cfg.RequestTimeout(),
		Workspace:      ws,
	}, r)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("provider", cfg.Provider).Str("model", cfg.Model).Msg("starting promptrelay")
	return srv.Start(ctx)
}

// applyFlags lets explicitly passed flags win over file and environment values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = flagHost
	}
	if flags.Changed("port") {
		cfg.Port = flagPort
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("workspace") {
		cfg.WorkspaceEnabled = flagWorkspace
	}
}

func providerSettings(cfg *config.Config) provider.Settings {
	return provider.Settings{
		Kind:            provider.Kind(cfg.Provider),
		APIKey:          cfg.APIKey,
		Endpoint:        cfg.Endpoint,
		APIVersion:      cfg.APIVersion,
		Deployment:      cfg.Deployment,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
	}
}

func isSensitiveConfigKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "api_key", "anthropic_api_key":
		return true
	}
	return false
}

func maskSecret(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "***" + value[len(value)-4:]
}

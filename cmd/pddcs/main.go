package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sellerdesk/pddcs/internal/account"
	"github.com/sellerdesk/pddcs/internal/config"
	"github.com/sellerdesk/pddcs/internal/gateway"
	"github.com/sellerdesk/pddcs/internal/httpx"
)

var rootCmd = &cobra.Command{
	Use:   "pddcs",
	Short: "pddcs - merchant customer-service console",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Log in and relay buyer messages",
	RunE:  runConsole,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pddcs configuration",
	RunE:  runStatus,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Write the default config file",
	RunE:  runOnboard,
}

func init() {
	rootCmd.AddCommand(runCmd, statusCmd, onboardCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runConsole(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if key := os.Getenv("PDDCS_OPENAI_API_KEY"); key != "" && cfg.Replier.APIKey == "" {
		cfg.Replier.APIKey = key
	}

	stdin := bufio.NewReader(os.Stdin)

	username := os.Getenv("PDDCS_USERNAME")
	if username == "" {
		username, err = prompt(stdin, "account: ")
		if err != nil {
			return err
		}
	}

	cookieInput := os.Getenv("PDDCS_COOKIE")
	if cookieInput == "" {
		cookieInput, err = prompt(stdin, "cookies (JSON or key=value; pairs): ")
		if err != nil {
			return err
		}
	}

	cookies := httpx.ParseCookies(cookieInput)
	if cookies.Len() == 0 {
		return fmt.Errorf("no valid cookies parsed")
	}

	acct := account.NewAccount(username, cookies)

	gw, err := gateway.New(cfg, acct)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := gw.Run(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("interrupted, exiting...")
			return nil
		}
		return err
	}
	return nil
}

func prompt(in *bufio.Reader, label string) (string, error) {
	fmt.Print(label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Stream: %s (version %s, ping %ds)\n", cfg.Stream.URL, cfg.Stream.Version, cfg.Stream.PingInterval)
	fmt.Printf("Business hours: %s-%s\n", cfg.Hours.Start, cfg.Hours.End)
	fmt.Printf("Replier: %s\n", replierDisplay(cfg.Replier.Mode))
	if cfg.Gateway.Enabled {
		fmt.Printf("Ops endpoint: %s:%d\n", cfg.Gateway.Host, cfg.Gateway.Port)
	} else {
		fmt.Println("Ops endpoint: disabled")
	}
	if os.Getenv("PDDCS_COOKIE") != "" {
		fmt.Println("Cookies: set via PDDCS_COOKIE")
	} else {
		fmt.Println("Cookies: will be prompted")
	}
	return nil
}

func replierDisplay(mode string) string {
	if mode == "" {
		return "console (default)"
	}
	return mode
}

func runOnboard(cmd *cobra.Command, args []string) error {
	path := config.ConfigPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists: %s\n", path)
		return nil
	}

	if err := config.Save(config.DefaultConfig(), path); err != nil {
		return err
	}
	fmt.Printf("Created config: %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Export PDDCS_COOKIE (or keep the interactive prompt)")
	fmt.Println("  2. Run 'pddcs run' to connect")
	return nil
}

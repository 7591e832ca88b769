package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/govm-net/riffs/config"
	"github.com/govm-net/riffs/sandbox"
	"github.com/govm-net/riffs/store"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "riffs",
	Short: "Contract component sandbox",
	Long: `riffs runs the bootloader, registry and launcher contracts on a local
single-node sandbox and builds the images that name them.
Example: riffs -c riffs.hcl call alice.near boot.near deploy v0_0_1.registry.near --deposit 1`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "riffs.hcl", "Configuration file; defaults apply when it does not exist")
	rootCmd.AddCommand(imageCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(stateCmd)
}

// loadConfig reads the configuration file. Without one the defaults apply,
// except that state is kept in ./riffs.db so it outlives the command.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(configFile)
	if err == nil {
		return c, nil
	}
	if _, statErr := os.Stat(configFile); errors.Is(statErr, fs.ErrNotExist) {
		c = config.Default()
		c.Backend = store.SQLiteBackend
		return c, nil
	}
	return nil, err
}

// openChain opens the configured chain and sets up the default logger.
func openChain(ctx context.Context) (*sandbox.Chain, *config.Config, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := c.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	chain, err := c.NewChain(ctx, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open chain: %w", err)
	}
	return chain, c, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

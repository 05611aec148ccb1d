package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose      bool
	configPath   string
	storeBackend string
	timeout      time.Duration

	// Resolved at startup
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "storefront - browse a product catalog and keep a shopping cart",
	Long: `storefront fetches a product catalog from a remote JSON API and keeps a
shopping cart in local storage. The cart survives restarts.

Run without arguments to open the interactive storefront.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if storeBackend != "" {
			loaded.Storage.Backend = storeBackend
		}
		if timeout > 0 {
			loaded.Catalog.Timeout = timeout.String()
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		cfg = loaded

		if err := logging.Initialize(cfg.Logging.Dir, cfg.Logging); err != nil {
			fmt.Fprintf(os.Stderr, "warning: file logging disabled: %v\n", err)
		}
		logging.Boot("storefront %s starting (%s)", cfg.Version, cmd.CalledAs())

		// The interactive shop owns the terminal
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runShop,
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Fetch and list the product catalog",
	Args:  cobra.NoArgs,
	RunE:  runProducts,
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show the saved cart and its total",
	Args:  cobra.NoArgs,
	RunE:  runCart,
}

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Print the cart total",
	Args:  cobra.NoArgs,
	RunE:  runTotal,
}

var addCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Add a product to the cart (or one more if already there)",
	Long: `Fetches the catalog and adds the product with the given id to the cart.
Adding a product that is already in the cart increases its quantity by one.
Unknown ids leave the cart unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runIntent,
}

var incCmd = &cobra.Command{
	Use:   "inc [product-id]",
	Short: "Increase the quantity of a cart line by one",
	Args:  cobra.ExactArgs(1),
	RunE:  runIntent,
}

var decCmd = &cobra.Command{
	Use:   "dec [product-id]",
	Short: "Decrease the quantity of a cart line by one (removing it at zero)",
	Args:  cobra.ExactArgs(1),
	RunE:  runIntent,
}

var removeCmd = &cobra.Command{
	Use:     "remove [product-id]",
	Aliases: []string{"rm"},
	Short:   "Remove a line from the cart",
	Args:    cobra.ExactArgs(1),
	RunE:    runIntent,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Storage backend: sqlite, redis or memory (default from config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Catalog fetch timeout (default from config)")

	productsCmd.Flags().String("category", "", "Only list products in this category")

	rootCmd.AddCommand(productsCmd, cartCmd, totalCmd, addCmd, incCmd, decCmd, removeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// commandContext returns the command's context, cancelled on SIGINT/SIGTERM.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/loopwork-ai/shopmcp/internal"
	"github.com/loopwork-ai/shopmcp/internal/config"
	"github.com/loopwork-ai/shopmcp/mcp"
	"github.com/loopwork-ai/shopmcp/shopify"
)

var rootCmd = &cobra.Command{
	Use:   "shopmcp",
	Short: "An MCP server for Shopify store administration",
	Long: `shopmcp is an MCP stdio server that exposes Shopify Admin operations as tools.
It processes JSON-RPC requests from stdin, makes the corresponding Admin
GraphQL API calls, and returns JSON-RPC responses to stdout.

The store domain and access token can be given as flags, in a config file,
or via the SHOPIFY_STORE_DOMAIN and SHOPIFY_ACCESS_TOKEN environment
variables (a .env file in the working directory is loaded when present).
The access token may be a 1Password secret reference (op://vault/item/field).`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		if !verbose {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		}

		// Best effort; a missing .env is not an error
		if err := godotenv.Load(); err == nil {
			logger.Debug("loaded environment from .env")
		}

		cfg, err := config.LoadFile(configPath)
		if err != nil {
			return err
		}

		if shop == "" {
			shop = cfg.StoreDomain
		}
		if shop == "" {
			shop = os.Getenv("SHOPIFY_STORE_DOMAIN")
		}
		if shop == "" {
			return fmt.Errorf("a store domain is required (--shop, config file, or SHOPIFY_STORE_DOMAIN)")
		}

		if accessToken == "" {
			accessToken = os.Getenv("SHOPIFY_ACCESS_TOKEN")
		}
		if accessToken == "" {
			accessToken = cfg.AccessToken
		}
		if accessToken == "" {
			return fmt.Errorf("an access token is required (--access-token, config file, or SHOPIFY_ACCESS_TOKEN)")
		}

		resolved, wasSecret, err := internal.ResolveSecretReference(ctx, accessToken)
		if err != nil {
			return fmt.Errorf("error resolving access token: %w", err)
		}
		if wasSecret {
			logger.Info("resolved access token from 1Password")
		}
		accessToken = resolved

		if apiVersion == "" {
			apiVersion = cfg.APIVersion
		}
		if timeout == 0 {
			timeout = time.Duration(cfg.Timeout)
		}

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			retryClient := retryablehttp.NewClient()
			retryClient.RetryMax = retries
			retryClient.RetryWaitMin = 1 * time.Second
			retryClient.RetryWaitMax = 30 * time.Second
			retryClient.HTTPClient.Timeout = timeout
			retryClient.HTTPClient.Transport = internal.NewAccessTokenTransport(retryClient.HTTPClient.Transport, accessToken)
			retryClient.Logger = logger

			if rps > 0 {
				retryClient.Backoff = func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
					// Ensure we wait at least 1/rps between requests
					minWait := time.Second / time.Duration(rps)
					if min < minWait {
						min = minWait
					}
					return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
				}
			}

			client, err := shopify.NewClient(shop, apiVersion,
				shopify.WithHTTPClient(retryClient.StandardClient()),
				shopify.WithLogger(logger),
			)
			if err != nil {
				return fmt.Errorf("error creating Shopify client: %w", err)
			}

			server, err := mcp.NewServer(
				mcp.WithShopify(client),
				mcp.WithServerInfo("shopmcp", version),
				mcp.WithLogger(logger),
				mcp.WithDisabledTools(cfg.IsToolDisabled),
			)
			if err != nil {
				return fmt.Errorf("error creating server: %w", err)
			}

			var opts []mcp.TransportOption
			if cfg.MaxPendingBytes > 0 {
				opts = append(opts, mcp.WithMaxPendingBytes(cfg.MaxPendingBytes))
			}

			transport := mcp.NewStdioTransport(server, os.Stdin, os.Stdout, os.Stderr, opts...)
			return transport.Run(ctx)
		})

		return g.Wait()
	},
}

var (
	shop        string
	accessToken string
	apiVersion  string
	configPath  string
	verbose     bool
	retries     int
	timeout     time.Duration
	rps         int

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func init() {
	rootCmd.Flags().StringVar(&shop, "shop", "", "Store domain (e.g. my-store.myshopify.com)")
	rootCmd.Flags().StringVar(&accessToken, "access-token", "", "Admin API access token (supports op:// secret references)")
	rootCmd.Flags().StringVar(&apiVersion, "api-version", "", "Admin API version (default "+shopify.DefaultAPIVersion+")")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging to stderr")
	rootCmd.Flags().IntVar(&retries, "retries", 3, "Maximum number of retries for failed requests")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "HTTP request timeout")
	rootCmd.Flags().IntVarP(&rps, "rps", "r", 0, "Maximum requests per second (0 for no limit)")

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built at: %s)", version, commit, date)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

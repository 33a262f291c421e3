// ffversion HTTP and gRPC server
// Answers current Firefox version numbers and source tarball locations
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nainya/ffversion/internal/config"
	"github.com/nainya/ffversion/internal/logger"
	"github.com/nainya/ffversion/internal/server"
	"github.com/nainya/ffversion/pkg/firefox"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var v *viper.Viper

	cmd := &cobra.Command{
		Use:          "ffversion",
		Short:        "Serve current Firefox versions and source tarball URLs",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			v, err = config.NewViper(cmd.Flags())
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			return runServer(cmd.Context(), cfg)
		},
	}
	config.RegisterFlags(cmd.Flags())

	cmd.AddCommand(newQueryCommand())
	return cmd
}

func runServer(ctx context.Context, cfg *config.Config) error {
	logger.InitGlobalLogger(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	log := logger.GetGlobalLogger()

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}

func newQueryCommand() *cobra.Command {
	var (
		addr      string
		sourceURL bool
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "query [target]",
		Short: "Ask a running server for a channel's version, or every channel without a target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
			if err != nil {
				return fmt.Errorf("failed to dial %s: %w", addr, err)
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client := server.NewReleasesClient(conn)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				versions, err := client.GetVersions(ctx)
				if err != nil {
					return err
				}
				for _, c := range firefox.Channels() {
					fmt.Fprintf(out, "%-8s %s\n", c.Key(), versions[c.Key()])
				}
				return nil
			}

			var result string
			if sourceURL {
				result, err = client.GetSourceURL(ctx, args[0])
			} else {
				result, err = client.GetVersion(ctx, args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "server", "localhost:50051", "address of the gRPC Releases service")
	cmd.Flags().BoolVar(&sourceURL, "source-url", false, "print the source tarball URL instead of the version")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

// Command webscraping-mcp serves the WebScraping.AI tools over the
// Model Context Protocol.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/webscraping-mcp/callbacks"
	"github.com/effective-security/webscraping-mcp/config"
	"github.com/effective-security/webscraping-mcp/server"
	"github.com/effective-security/webscraping-mcp/tools"
	"github.com/effective-security/webscraping-mcp/webscraping"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/webscraping-mcp", "cmd")

// Version is set at build time.
var Version = "v0.0.0-dev"

type cli struct {
	configFile string
	httpAddr   string
	debug      bool
	verbose    bool
	format     string
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "webscraping-mcp",
		Short:         "WebScraping.AI MCP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// stdout carries the stdio transport
			xlog.SetFormatter(xlog.NewStringFormatter(cmd.ErrOrStderr()))
			if c.debug {
				xlog.SetGlobalLogLevel(xlog.DEBUG)
			} else {
				xlog.SetGlobalLogLevel(xlog.INFO)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVarP(&c.configFile, "config", "c", "", "optional config file, the WEBSCRAPING_AI_* environment overrides it")
	root.PersistentFlags().BoolVarP(&c.debug, "debug", "d", false, "debug logging")
	root.Flags().StringVar(&c.httpAddr, "http", "", "serve the streamable HTTP transport on the address instead of stdio")
	root.Flags().BoolVarP(&c.verbose, "verbose", "v", false, "print tool calls and their output to stderr")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	})

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool descriptions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.printTools(cmd.OutOrStdout())
		},
	}
	toolsCmd.Flags().StringVarP(&c.format, "format", "f", "json", "output format: json or yaml")
	root.AddCommand(toolsCmd)

	return root
}

func (c *cli) newRouter(cfg *config.Config, cb tools.Callback) (*tools.Router, error) {
	client, err := webscraping.New(cfg.ClientConfig())
	if err != nil {
		return nil, err
	}
	return tools.NewRouter(client, tools.WithCallback(cb)), nil
}

// callback returns the tool callbacks of a session.
// stdout carries the stdio transport, so the printer writes to errOut.
func (c *cli) callback(stats *callbacks.Stats, errOut io.Writer) tools.Callback {
	cb := callbacks.NewFanout(callbacks.NewPackageLogger(logger), stats)
	if c.verbose {
		cb.Add(callbacks.NewPrinter(errOut, callbacks.ModeVerbose))
	}
	return cb
}

func (c *cli) serve(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	cfg, err := config.Load(c.configFile)
	if err != nil {
		return err
	}
	if c.httpAddr != "" {
		cfg.HTTPAddr = c.httpAddr
	}

	stats := callbacks.NewStats()
	router, err := c.newRouter(cfg, c.callback(stats, errOut))
	if err != nil {
		return err
	}
	s := server.New(cfg, router, Version)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		sum := stats.Summary()
		logger.KV(xlog.INFO, "status", "stopped", "summary", sum.String())
		if sum.ToolsCalls > 0 {
			logger.KV(xlog.INFO, "tools", sum.Table())
		}
	}()

	if cfg.HTTPAddr != "" {
		return s.ServeHTTP(ctx, cfg.HTTPAddr)
	}
	return s.ServeStdio(ctx, in, out)
}

func (c *cli) printTools(out io.Writer) error {
	// descriptions do not need a real key
	cfg := &config.Config{APIKey: "none"}
	router, err := c.newRouter(cfg, callbacks.NewNoop())
	if err != nil {
		return err
	}

	switch c.format {
	case "json":
		fmt.Fprintln(out, tools.GetDescriptions(router.ITools()...))
	case "yaml":
		fmt.Fprint(out, tools.GetDescriptionsYAML(router.ITools()...))
	default:
		return errors.Newf("unsupported format: %q", c.format)
	}
	return nil
}

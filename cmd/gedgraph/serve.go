package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dusk-indust/gedgraph/internal/mcptools"
)

func newServeMCPCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve the genealogy tools over MCP",
		Long: `Run an MCP server exposing load_gedcom, find_individuals,
get_individual, common_ancestors, relationship_path, distance_to_ancestor,
get_lineage and unload_gedcom.

The server speaks stdio by default. With --http (or mcpAddr in
gedgraph.yml) it serves streamable HTTP on that address instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc := mcptools.NewGenealogyService(a.logger, a.parseOptions()...)
			svc.SetMaxDepth(a.cfg.Depth(defaultLineageDepth))
			defer svc.Close()

			if !cmd.Flags().Changed("http") {
				addr = a.cfg.MCPAddr
			}
			if addr == "" {
				return mcptools.RunMCPServerStdio(ctx, svc)
			}
			a.logger.Info("serving MCP over HTTP", "addr", addr)
			return mcptools.RunMCPServer(ctx, svc, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "http", "", "listen address for streamable HTTP, e.g. localhost:8377")
	return cmd
}

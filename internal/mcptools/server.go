package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGenealogyMCPServer creates an MCP server with the genealogy tools
// registered.
func NewGenealogyMCPServer(svc *GenealogyService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gedgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_gedcom",
		Description: "Parse a GEDCOM file, resolve its cross-references and build its family graph. Returns a handle used by every other tool.",
	}, instrumented("load_gedcom", svc.LoadGedcom))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "unload_gedcom",
		Description: "Release a document loaded with load_gedcom.",
	}, instrumented("unload_gedcom", svc.UnloadGedcom))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_individuals",
		Description: "Search a loaded document for individuals by surname, given name, birth year range, sex or living status.",
	}, instrumented("find_individuals", svc.FindIndividuals))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_individual",
		Description: "Return one individual with its events, families, parents and children.",
	}, instrumented("get_individual", svc.GetIndividual))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "common_ancestors",
		Description: "Return the closest ancestors shared by two individuals.",
	}, instrumented("common_ancestors", svc.CommonAncestors))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "relationship_path",
		Description: "Return the path from one individual to a relative through their closest common ancestor, each step tagged parent, child or sibling.",
	}, instrumented("relationship_path", svc.RelationshipPath))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "distance_to_ancestor",
		Description: "Count the generations between an individual (from) and one of its ancestors (to).",
	}, instrumented("distance_to_ancestor", svc.DistanceToAncestor))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_lineage",
		Description: "Traverse ancestors or descendants of an individual up to a depth. Returns one chain per reachable person.",
	}, instrumented("get_lineage", svc.GetLineage))

	return server
}

// RunMCPServer starts an HTTP server exposing the genealogy MCP tools, with
// Prometheus metrics served at /metrics.
func RunMCPServer(ctx context.Context, svc *GenealogyService, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: NewHTTPHandler(svc),
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// NewHTTPHandler routes /metrics to the Prometheus handler and everything
// else to the streamable MCP handler.
func NewHTTPHandler(svc *GenealogyService) http.Handler {
	server := NewGenealogyMCPServer(svc)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	))
	return mux
}

// RunMCPServerStdio runs the genealogy MCP server on stdio transport,
// blocking until stdin is closed or the context is cancelled.
func RunMCPServerStdio(ctx context.Context, svc *GenealogyService) error {
	return NewGenealogyMCPServer(svc).Run(ctx, &mcp.StdioTransport{})
}

package mcptools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// toolCalls counts tool invocations.
	// Labels: tool, status (ok, error)
	toolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gedgraph",
		Subsystem: "mcp",
		Name:      "tool_calls_total",
		Help:      "Total MCP tool calls by tool and outcome",
	}, []string{"tool", "status"})

	toolLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gedgraph",
		Subsystem: "mcp",
		Name:      "tool_latency_seconds",
		Help:      "MCP tool call latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"tool"})

	loadedDocuments = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gedgraph",
		Subsystem: "mcp",
		Name:      "loaded_documents",
		Help:      "Documents currently held by load_gedcom handles",
	})
)

// instrumented wraps a tool handler with call counting and latency.
func instrumented[In, Out any](name string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		start := time.Now()
		res, out, err := h(ctx, req, in)

		status := "ok"
		if err != nil {
			status = "error"
		}
		toolCalls.WithLabelValues(name, status).Inc()
		toolLatency.WithLabelValues(name).Observe(time.Since(start).Seconds())
		return res, out, err
	}
}

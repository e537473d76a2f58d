package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/jfr"
	"github.com/jerrinot/jfrview/internal/metrics"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the exporters as MCP tools over stdio",
	Long: `Runs a Model Context Protocol server on stdin/stdout exposing flame_graph,
speedscope, folded, stats and hot_methods. With --metrics-addr, decode counters
are served at /metrics in the Prometheus text format.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if mcpFlags.metricsAddr != "" {
			reg := prometheus.NewRegistry()
			pipeline = metrics.NewPipeline(reg)
			go serveMetrics(mcpFlags.metricsAddr, reg)
		}
		return server.ServeStdio(newMCPServer())
	},
}

var mcpFlags struct {
	metricsAddr string
}

const flagMetricsAddrName = "metrics-addr"

func init() {
	mcpCmd.Flags().StringVar(&mcpFlags.metricsAddr, flagMetricsAddrName, "", "serve Prometheus metrics on this address, e.g. :9090")
	rootCmd.AddCommand(mcpCmd)
}

func serveMetrics(addr string, g prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	slog.Info("serving metrics", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics server stopped", slog.String("error", err.Error()))
	}
}

// render runs fn off the request goroutine so that a cancelled request
// returns without waiting for the capture pass to finish.
func render(ctx context.Context, request mcp.CallToolRequest, fn func(w *bytes.Buffer, src jfr.Source) error) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("file_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := jfr.Await(ctx, jfr.Async(func() (string, error) {
		src, err := jfr.Open(path)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		if err := fn(&buf, src); err != nil {
			return "", err
		}
		return buf.String(), nil
	}))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

var filePathArg = mcp.WithString("file_path",
	mcp.Required(),
	mcp.Description("Absolute path to a .jfr or .jfr.gz capture"),
)

var includeNativeArg = mcp.WithBoolean("include_native",
	mcp.Description("Include native method samples (default: false)"),
)

func newMCPServer() *server.MCPServer {
	s := server.NewMCPServer(appName, version, server.WithLogging())

	flameTool := mcp.NewTool("flame_graph",
		mcp.WithDescription("Aggregate the CPU samples of a JFR capture into a flame graph tree of {name, value, children}."),
		filePathArg,
		includeNativeArg,
	)
	s.AddTool(flameTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		includeNative := request.GetBool("include_native", false)
		return render(ctx, request, func(w *bytes.Buffer, src jfr.Source) error {
			g, err := loadGraph(src)
			if err != nil {
				return err
			}
			return writeFlameGraph(w, g, formatJSON, includeNative)
		})
	})

	speedscopeTool := mcp.NewTool("speedscope",
		mcp.WithDescription("Write a speedscope document with one sampled profile holding every complete sample in arrival order."),
		filePathArg,
		includeNativeArg,
	)
	s.AddTool(speedscopeTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		includeNative := request.GetBool("include_native", false)
		return render(ctx, request, func(w *bytes.Buffer, src jfr.Source) error {
			return cmdSpeedscope(w, src, filepath.Base(request.GetString("file_path", "")), formatSpeedscope, includeNative)
		})
	})

	foldedTool := mcp.NewTool("folded",
		mcp.WithDescription("Fold samples into a {name, kind, value, children} tree, optionally grouped by thread."),
		filePathArg,
		includeNativeArg,
		mcp.WithBoolean("by_thread",
			mcp.Description("Add one level of thread nodes under the root (default: false)"),
		),
		mcp.WithString("format",
			mcp.Description("json or collapsed (default: json)"),
			mcp.Enum(formatJSON, formatCollapsed),
		),
	)
	s.AddTool(foldedTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		includeNative := request.GetBool("include_native", false)
		byThread := request.GetBool("by_thread", false)
		format := request.GetString("format", formatJSON)
		if err := validateFormat(format, formatJSON, formatCollapsed); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return render(ctx, request, func(w *bytes.Buffer, src jfr.Source) error {
			return cmdFolded(w, src, format, includeNative, byThread)
		})
	})

	statsTool := mcp.NewTool("stats",
		mcp.WithDescription("Report the time range of a capture, per-type event counts and a one-line summary of each event of one type."),
		filePathArg,
		mcp.WithString("type",
			mcp.Description("Event type to summarize (default: jdk.ExecutionSample)"),
		),
	)
	s.AddTool(statsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		target := request.GetString("type", jfr.ExecutionSampleType)
		return render(ctx, request, func(w *bytes.Buffer, src jfr.Source) error {
			return cmdStats(w, src, target, formatJSON)
		})
	})

	hotTool := mcp.NewTool("hot_methods",
		mcp.WithDescription("Rank methods by self time and by total time. The quickest way to find where CPU goes."),
		filePathArg,
		includeNativeArg,
		mcp.WithNumber("top_n",
			mcp.Description("Number of methods per table (default: 10)"),
		),
	)
	s.AddTool(hotTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		includeNative := request.GetBool("include_native", false)
		top := int(request.GetFloat("top_n", 10))
		return render(ctx, request, func(w *bytes.Buffer, src jfr.Source) error {
			return cmdHot(w, src, top, false, includeNative, 0)
		})
	})

	return s
}

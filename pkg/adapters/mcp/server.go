package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/remap"
	"github.com/aretw0/remap/pkg/domain"
	"github.com/aretw0/remap/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const pipelineURI = "remap://pipeline"

// QueryArgs are the arguments shared by the minimum and evaluate tools.
type QueryArgs struct {
	Seeds string `json:"seeds"`
	Mode  string `json:"mode,omitempty"`
}

// MinimumResponse is the structured result of the minimum tool.
type MinimumResponse struct {
	Minimum int64 `json:"minimum" jsonschema_description:"Lowest value reachable in the terminal domain"`
}

// EvaluateResponse is the structured result of the evaluate tool.
type EvaluateResponse struct {
	Ranges []domain.Range `json:"ranges" jsonschema_description:"Terminal ranges, offsets folded into their starts"`
}

// StageView is the JSON shape of a stage in get_pipeline and the pipeline resource.
type StageView struct {
	ID    string         `json:"id"`
	Next  string         `json:"next"`
	Rules []domain.Range `json:"rules"`
}

// Server wraps a QueryEngine and exposes it as an MCP Server.
type Server struct {
	engine    ports.QueryEngine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.QueryEngine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("remap-mcp", strings.TrimSpace(remap.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	seedsArg := mcp.WithString("seeds", mcp.Required(),
		mcp.Description("Seed integers separated by spaces or commas, e.g. \"79 14 55 13\""))
	modeArg := mcp.WithString("mode", mcp.Enum(string(domain.SeedPairs), string(domain.SeedPoints)),
		mcp.Description("How seeds are read: (start, length) pairs or single points. Defaults to pairs."))

	// TOOL: minimum
	s.mcpServer.AddTool(mcp.NewTool("minimum",
		mcp.WithDescription("Return the lowest terminal value reachable from the seeds."),
		seedsArg,
		modeArg,
		mcp.WithOutputSchema[MinimumResponse](),
	), mcp.NewStructuredToolHandler(s.handleMinimum))

	// TOOL: evaluate
	s.mcpServer.AddTool(mcp.NewTool("evaluate",
		mcp.WithDescription("Push the seeds through every stage and return the terminal ranges."),
		seedsArg,
		modeArg,
		mcp.WithOutputSchema[EvaluateResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: locate
	s.mcpServer.AddTool(mcp.NewTool("locate",
		mcp.WithDescription("Map a single integer through the pipeline."),
		mcp.WithString("point", mcp.Required(), mcp.Description("The integer to map")),
	), s.handleLocate)

	// TOOL: get_pipeline
	s.mcpServer.AddTool(mcp.NewTool("get_pipeline",
		mcp.WithDescription("Get the stage definitions of the pipeline."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.stages())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleMinimum(ctx context.Context, request mcp.CallToolRequest, args QueryArgs) (MinimumResponse, error) {
	seeds, err := parseSeeds(args)
	if err != nil {
		return MinimumResponse{}, err
	}
	lowest, err := s.engine.Minimum(ctx, seeds)
	if err != nil {
		return MinimumResponse{}, fmt.Errorf("minimum failed: %w", err)
	}
	return MinimumResponse{Minimum: lowest}, nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args QueryArgs) (EvaluateResponse, error) {
	seeds, err := parseSeeds(args)
	if err != nil {
		return EvaluateResponse{}, err
	}
	out, err := s.engine.Evaluate(ctx, seeds)
	if err != nil {
		return EvaluateResponse{}, fmt.Errorf("evaluate failed: %w", err)
	}
	if out == nil {
		out = []domain.Range{}
	}
	return EvaluateResponse{Ranges: out}, nil
}

func (s *Server) handleLocate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("point")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	point, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("point must be an integer: %v", err)), nil
	}

	location, err := s.engine.Locate(point)
	if err != nil {
		if errors.Is(err, domain.ErrMissingStage) {
			slog.Warn("MCP Locate: pipeline incomplete", "error", err)
		}
		return mcp.NewToolResultError(fmt.Sprintf("locate failed: %v", err)), nil
	}
	return mcp.NewToolResultText(strconv.FormatInt(location, 10)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: remap://pipeline
	s.mcpServer.AddResource(mcp.NewResource(pipelineURI, "Current Pipeline Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.stages())
		if err != nil {
			return nil, fmt.Errorf("failed to inspect pipeline: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      pipelineURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func (s *Server) stages() []StageView {
	stages := s.engine.Inspect()
	views := make([]StageView, 0, len(stages))
	for _, st := range stages {
		views = append(views, StageView{ID: st.ID, Next: st.Next, Rules: st.Rules})
	}
	return views
}

func parseSeeds(args QueryArgs) ([]domain.Range, error) {
	values, err := domain.ParseSeeds(args.Seeds)
	if err != nil {
		return nil, err
	}

	mode := domain.SeedMode(args.Mode)
	if mode == "" {
		mode = domain.SeedPairs
	}
	return domain.SeedRanges(values, mode)
}

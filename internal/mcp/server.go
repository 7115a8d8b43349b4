// Package mcp serves the analyser to AI assistants over the Model Context
// Protocol (JSON-RPC 2.0, one message per line on stdio).
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/vijay-prabhu/jobad-analyser/internal/bias"
	"github.com/vijay-prabhu/jobad-analyser/internal/database"
	"github.com/vijay-prabhu/jobad-analyser/internal/scraper"
)

// Fetcher downloads a job ad by URL
type Fetcher interface {
	Scrape(ctx context.Context, rawURL string) (*scraper.JobAd, error)
}

// Options configures a Server. DB and Fetcher may be nil.
type Options struct {
	Analyser    *bias.Analyser
	DB          *database.DB
	Fetcher     Fetcher
	SaveHistory bool
	Version     string
	Logger      *slog.Logger
}

// toolFunc runs one tool. A string result is sent as-is, anything else as
// indented JSON.
type toolFunc func(ctx context.Context, args json.RawMessage) (any, error)

// methodFunc answers one JSON-RPC method
type methodFunc func(ctx context.Context, params json.RawMessage) (any, *rpcError)

// Server answers MCP requests for one client
type Server struct {
	analyser    *bias.Analyser
	db          *database.DB
	fetcher     Fetcher
	saveHistory bool
	version     string
	logger      *slog.Logger
	tools       map[string]toolFunc
	methods     map[string]methodFunc
}

// New creates a new MCP server
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		analyser:    opts.Analyser,
		db:          opts.DB,
		fetcher:     opts.Fetcher,
		saveHistory: opts.SaveHistory,
		version:     version,
		logger:      logger,
	}
	s.tools = map[string]toolFunc{
		"analyse_job_ad": s.handleAnalyseJobAd,
		"analyse_url":    s.handleAnalyseURL,
		"list_terms":     s.handleListTerms,
		"get_history":    s.handleGetHistory,
	}
	s.methods = map[string]methodFunc{
		"initialize":                s.initialize,
		"notifications/initialized": noResult,
		"initialized":               noResult,
		"ping":                      func(context.Context, json.RawMessage) (any, *rpcError) { return struct{}{}, nil },
		"tools/list":                func(context.Context, json.RawMessage) (any, *rpcError) { return toolsListResult{Tools: ToolDefinitions}, nil },
		"tools/call":                s.callTool,
		"resources/list":            func(context.Context, json.RawMessage) (any, *rpcError) { return resourcesListResult{Resources: ResourceDefinitions}, nil },
		"resources/read":            s.readResource,
	}
	return s
}

// Start runs the MCP server on stdio
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one request per line from r and writes responses to w until
// EOF or ctx is cancelled. Blank lines are ignored.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	enc := json.NewEncoder(w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("read error: %w", readErr)
		}

		if strings.TrimSpace(line) != "" {
			if resp := s.dispatch(ctx, []byte(line)); resp != nil {
				if err := enc.Encode(resp); err != nil {
					return fmt.Errorf("write error: %w", err)
				}
			}
		}

		if readErr == io.EOF {
			return nil
		}
	}
}

// dispatch decodes one message and routes it. Notifications never get a
// response, even when they fail.
func (s *Server) dispatch(ctx context.Context, msg []byte) *response {
	var req request
	if err := json.Unmarshal(msg, &req); err != nil {
		return &response{JSONRPC: "2.0", Error: &rpcError{Code: codeParseError, Message: "Parse error"}}
	}

	s.logger.Debug("mcp request", "method", req.Method, "notification", req.isNotification())

	method, ok := s.methods[req.Method]
	if !ok {
		if req.isNotification() {
			return nil
		}
		return &response{JSONRPC: "2.0", ID: req.ID, Error: &rpcError{Code: codeMethodNotFound, Message: "Method not found"}}
	}

	result, rpcErr := method(ctx, req.Params)
	if req.isNotification() {
		return nil
	}
	if rpcErr != nil {
		return &response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return &response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func noResult(context.Context, json.RawMessage) (any, *rpcError) { return nil, nil }

func (s *Server) initialize(context.Context, json.RawMessage) (any, *rpcError) {
	return initializeResult{
		ProtocolVersion: protocolVersion,
		ServerInfo:      serverInfo{Name: "jobad-analyser", Version: s.version},
	}, nil
}

func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params callToolParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, invalidParams("Invalid params")
	}

	tool, ok := s.tools[params.Name]
	if !ok {
		return nil, invalidParams("Unknown tool: " + params.Name)
	}

	out, err := tool(ctx, params.Arguments)
	if err != nil {
		s.logger.Warn("tool call failed", "tool", params.Name, "error", err)
		return textResult(err.Error(), true), nil
	}

	if text, ok := out.(string); ok {
		return textResult(text, false), nil
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
	}
	return textResult(string(data), false), nil
}

func (s *Server) readResource(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params readResourceParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, invalidParams("Invalid params")
	}

	text, err := s.handleReadResource(ctx, params.URI)
	if err != nil {
		return nil, invalidParams(err.Error())
	}

	return readResourceResult{
		Contents: []resourceContent{{URI: params.URI, MimeType: "text/plain", Text: text}},
	}, nil
}

// Package mcp exposes the workspace over the Model Context Protocol so
// agent tooling can search and read assembly documentation.
package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dotpages/clrdoc/internal/render"
	"github.com/dotpages/clrdoc/internal/workspace"
)

//go:embed instructions.md
var instructions string

type Server struct {
	mcpServer *server.MCPServer
	ws        *workspace.Workspace
}

func NewServer(ws *workspace.Workspace) *Server {
	s := &Server{ws: ws}

	mcpServer := server.NewMCPServer(
		"clrdoc",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("lookup_member",
			mcp.WithDescription("Resolve a canonical doc-comment identifier (e.g. \"M:System.String.Substring(System.Int32)\") to its documentation. Cross-references are rewritten to readable names."),
			mcp.WithString("identifier",
				mcp.Description("Canonical identifier with kind prefix (T:, M:, P:, F:, E:)"),
				mcp.Required(),
			),
			mcp.WithString("format",
				mcp.Description("Output format: markdown (default), text, or xml"),
			),
		),
		s.handleLookupMember,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_members",
			mcp.WithDescription("Search indexed members across all added assemblies by identifier, simple name, or summary text."),
			mcp.WithString("query",
				mcp.Description("Search query"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearchMembers,
	)

	mcpServer.AddTool(
		mcp.NewTool("list_assemblies",
			mcp.WithDescription("List the assemblies whose documentation has been added to clrdoc."),
		),
		s.handleListAssemblies,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"clrdoc://{assembly}/{identifier}",
			".NET member documentation",
			mcp.WithTemplateDescription("Read the documentation for one member of an added assembly. Search results return these URIs."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleLookupMember(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, _ := args["identifier"].(string)
	if id == "" {
		return mcp.NewToolResultError("missing required parameter: identifier"), nil
	}
	format, _ := args["format"].(string)

	frag, err := s.ws.Comments(id, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	if frag == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no documentation for %s", id)), nil
	}

	switch format {
	case "", "markdown":
		return mcp.NewToolResultText(render.Markdown(frag)), nil
	case "text":
		return mcp.NewToolResultText(render.Text(frag)), nil
	case "xml":
		xml, err := render.XML(frag)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("serializing fragment: %v", err)), nil
		}
		return mcp.NewToolResultText(xml), nil
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}
}

func (s *Server) handleSearchMembers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	query, _ := args["query"].(string)
	if query == "" {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	limit := 20
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	results, err := s.ws.DB.Search(query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	type hit struct {
		URI        string `json:"uri"`
		Assembly   string `json:"assembly"`
		Identifier string `json:"identifier"`
		Kind       string `json:"kind"`
		Name       string `json:"name"`
		Summary    string `json:"summary,omitempty"`
	}
	hits := make([]hit, 0, len(results))
	for _, r := range results {
		hits = append(hits, hit{
			URI:        fmt.Sprintf("clrdoc://%s/%s", r.Assembly, r.DocID),
			Assembly:   r.Assembly,
			Identifier: r.DocID,
			Kind:       r.Kind,
			Name:       r.Name,
			Summary:    r.Summary,
		})
	}

	resultJSON, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleListAssemblies(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	assemblies, err := s.ws.DB.Assemblies()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing assemblies: %v", err)), nil
	}

	type entry struct {
		Name        string `json:"name"`
		MemberCount int    `json:"member_count"`
	}
	entries := make([]entry, 0, len(assemblies))
	for _, a := range assemblies {
		entries = append(entries, entry{Name: a.Name, MemberCount: a.MemberCount})
	}

	resultJSON, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	trimmed := strings.TrimPrefix(uri, "clrdoc://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}
	assembly, id := parts[0], parts[1]

	if _, ok := s.ws.Store(assembly); !ok {
		return nil, fmt.Errorf("assembly %s has not been added", assembly)
	}

	frag, err := s.ws.Comments(id, id)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", id, err)
	}
	if frag == nil {
		return nil, fmt.Errorf("no documentation for %s", id)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     render.Markdown(frag),
		},
	}, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) Shutdown(_ context.Context) error {
	return nil
}

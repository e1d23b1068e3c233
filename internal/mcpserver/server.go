// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes music selection tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/moodmusic/internal/library"
	"github.com/starford/moodmusic/internal/mood"
	"github.com/starford/moodmusic/internal/musicservice"
)

// GuideURI addresses the expanded-library instructions resource.
const GuideURI = "moodmusic://library-guide"

// Server wraps the MCP server with music tools.
type Server struct {
	mcp *server.MCPServer
	svc *musicservice.Service
}

// New creates a new MCP server with all music tools registered.
func New(svc *musicservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"moodmusic",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("find_music",
		mcp.WithDescription("Pick background music for a video of the given length. "+
			"Falls back to similar moods when the requested mood has no tracks."),
		mcp.WithNumber("duration", mcp.Required(), mcp.Description("Video duration in seconds")),
		mcp.WithString("mood", mcp.Description("Requested mood (default chill)"), mcp.Enum(mood.Strings()...)),
	), s.findMusic)

	s.mcp.AddTool(mcp.NewTool("list_music",
		mcp.WithDescription("List every available track with its URL, optionally for one mood."),
		mcp.WithString("mood", mcp.Description("Optional mood filter"), mcp.Enum(mood.Strings()...)),
	), s.listMusic)

	s.mcp.AddTool(mcp.NewTool("music_stats",
		mcp.WithDescription("Count tracks by origin (built-in or expanded) and by mood."),
	), s.musicStats)

	s.mcp.AddTool(mcp.NewTool("list_moods",
		mcp.WithDescription("List supported moods with their fallback moods and track counts."),
	), s.listMoods)

	s.mcp.AddTool(mcp.NewTool("reload_library",
		mcp.WithDescription("Rescan the expanded music folders and return updated stats."),
	), s.reloadLibrary)

	s.mcp.AddResource(
		mcp.NewResource(GuideURI, "Expanded Library Guide",
			mcp.WithResourceDescription("How to add music to the mood folders of the expanded library."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) findMusic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	duration, err := req.RequireFloat("duration")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	track, err := s.svc.Resolve(ctx, duration, req.GetString("mood", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(track)
}

func (s *Server) listMusic(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tracks, err := s.svc.Catalog(ctx, req.GetString("mood", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(tracks) == 0 {
		return mcp.NewToolResultText("no tracks found"), nil
	}
	return jsonResult(tracks)
}

func (s *Server) musicStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Stats(ctx))
}

func (s *Server) listMoods(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Moods(ctx))
}

func (s *Server) reloadLibrary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := s.svc.Reload(ctx)
	return mcp.NewToolResultText(fmt.Sprintf("reloaded: %d built-in, %d expanded tracks", stats.Original, stats.Expanded)), nil
}

func (s *Server) readGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GuideURI,
			MIMEType: "text/markdown",
			Text:     library.Guide,
		},
	}, nil
}

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all dupescan MCP tools with the server. Handlers
// share one similarity index, so check_duplicate accumulates documents
// across calls until clear_index.
func RegisterTools(s *server.MCPServer, configPath string) {
	handlers := NewHandlerSet(loadDependencies(configPath))

	// Tool 1: check_duplicate - Incremental duplicate detection
	s.AddTool(mcp.NewTool("check_duplicate",
		mcp.WithDescription("Check a document against previously submitted documents; inserts it when no near-duplicate is found"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Document text to check")),
		mcp.WithString("id",
			mcp.Description("Identifier recorded for the document and reported on later matches")),
	), handlers.HandleCheckDuplicate)

	// Tool 2: compare_texts - Pairwise similarity estimation
	s.AddTool(mcp.NewTool("compare_texts",
		mcp.WithDescription("Estimate the similarity of two documents without touching the index"),
		mcp.WithString("text1",
			mcp.Required(),
			mcp.Description("First document text")),
		mcp.WithString("text2",
			mcp.Required(),
			mcp.Description("Second document text")),
	), handlers.HandleCompareTexts)

	// Tool 3: scan_duplicates - Filesystem scan
	s.AddTool(mcp.NewTool("scan_duplicates",
		mcp.WithDescription("Scan a directory of text files for near-duplicate documents"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to a file or directory to scan")),
		mcp.WithBoolean("recursive",
			mcp.Description("Recursively scan directories (default: true)")),
		mcp.WithNumber("similarity_threshold",
			mcp.Description("Similarity threshold 0.0-1.0 (default: from configuration)")),
		mcp.WithNumber("seed",
			mcp.Description("Random seed for reproducible sketches (default: from configuration)")),
	), handlers.HandleScanDuplicates)

	// Tool 4: index_stats - Session index statistics
	s.AddTool(mcp.NewTool("index_stats",
		mcp.WithDescription("Report bucket occupancy and configuration of the session index"),
	), handlers.HandleIndexStats)

	// Tool 5: clear_index - Reset the session index
	s.AddTool(mcp.NewTool("clear_index",
		mcp.WithDescription("Remove all documents from the session index"),
	), handlers.HandleClearIndex)
}

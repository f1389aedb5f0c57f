package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/dupescan/dupescan/internal/version"
	"github.com/dupescan/dupescan/mcp"
)

const serverName = "dupescan"

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Set up logging to stderr (MCP uses stdout for JSON-RPC)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Create MCP server with tool capabilities
	server := mcpserver.NewMCPServer(
		serverName,
		version.Short(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	// Register all dupescan tools
	mcp.RegisterTools(server, *configPath)

	log.Printf("Starting %s MCP server v%s\n", serverName, version.Short())
	log.Println("Registered tools:")
	log.Println("  - check_duplicate: Incremental duplicate detection")
	log.Println("  - compare_texts: Pairwise similarity estimation")
	log.Println("  - scan_duplicates: Filesystem duplicate scan")
	log.Println("  - index_stats: Session index statistics")
	log.Println("  - clear_index: Reset the session index")
	log.Println("")
	log.Println("Server ready - waiting for MCP client connection...")

	// Start server with stdio transport
	// This blocks until the server is terminated
	if err := mcpserver.ServeStdio(server); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

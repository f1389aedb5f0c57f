package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dupescan/dupescan/domain"
	"github.com/dupescan/dupescan/internal/analyzer"
	"github.com/dupescan/dupescan/internal/config"
	"github.com/dupescan/dupescan/service"
)

// HandlerSet exposes MCP tool handlers with shared dependencies. The
// similarity index persists across check_duplicate calls, so a client can
// stream documents one by one and get incremental duplicate verdicts.
type HandlerSet struct {
	deps *Dependencies

	mu    sync.Mutex
	index *analyzer.SimilarityIndex
}

// NewHandlerSet constructs a handler set.
func NewHandlerSet(deps *Dependencies) *HandlerSet {
	if deps == nil {
		deps = NewDependencies(nil, "")
	}
	return &HandlerSet{deps: deps}
}

// sessionIndex returns the shared index, building it from the configured
// sketch parameters on first use.
func (h *HandlerSet) sessionIndex() (*analyzer.SimilarityIndex, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index != nil {
		return h.index, nil
	}

	index, err := analyzer.NewSimilarityIndexWithConfig(h.indexConfig())
	if err != nil {
		return nil, err
	}
	h.index = index
	return index, nil
}

// indexConfig maps the sketch configuration to index parameters.
func (h *HandlerSet) indexConfig() analyzer.SimilarityIndexConfig {
	sketch := h.deps.Config().Sketch
	cfg := analyzer.SimilarityIndexConfig{
		Threshold:        sketch.SimilarityThreshold,
		TokensInWord:     sketch.ShingleTokens,
		NumHashFunctions: sketch.NumHashFunctions,
		Bands:            sketch.Bands,
		Rows:             sketch.Rows,
	}
	if sketch.Seed != 0 {
		cfg.Rand = rand.New(rand.NewSource(sketch.Seed))
	}
	return cfg
}

// HandleCheckDuplicate handles the check_duplicate tool
func (h *HandlerSet) HandleCheckDuplicate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	text, ok := args["text"].(string)
	if !ok {
		return mcp.NewToolResultError("text parameter is required and must be a string"), nil
	}

	id := ""
	if v, ok := args["id"].(string); ok {
		id = v
	}

	index, err := h.sessionIndex()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build index: %v", err)), nil
	}

	match, found := index.FindSimilarDocument(id, text)

	response := map[string]interface{}{
		"duplicate":     found,
		"indexed_count": index.Size(),
	}
	if found {
		response["matched_with"] = match.DocumentID
		response["similarity"] = match.Similarity
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleCompareTexts handles the compare_texts tool
func (h *HandlerSet) HandleCompareTexts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	text1, ok := args["text1"].(string)
	if !ok {
		return mcp.NewToolResultError("text1 parameter is required and must be a string"), nil
	}
	text2, ok := args["text2"].(string)
	if !ok {
		return mcp.NewToolResultError("text2 parameter is required and must be a string"), nil
	}

	index, err := h.sessionIndex()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build index: %v", err)), nil
	}

	similarity := index.CompareDocuments(text1, text2)
	threshold := h.deps.Config().Sketch.SimilarityThreshold

	response := map[string]interface{}{
		"similarity": similarity,
		"duplicate":  similarity >= threshold,
		"threshold":  threshold,
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleScanDuplicates handles the scan_duplicates tool
func (h *HandlerSet) HandleScanDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	path, ok := args["path"].(string)
	if !ok {
		return mcp.NewToolResultError("path parameter is required and must be a string"), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return mcp.NewToolResultError(fmt.Sprintf("path does not exist: %s", path)), nil
	}

	req := h.buildRequest(path, args)
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid request: %v", err)), nil
	}

	dedupService := service.NewDedupService(h.deps.fileReader)
	dedupService.SetProgressManager(nil)

	response, err := dedupService.ScanPaths(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleIndexStats handles the index_stats tool
func (h *HandlerSet) HandleIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := h.sessionIndex()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build index: %v", err)), nil
	}

	stats := index.Stats()
	cfg := index.Config()

	response := map[string]interface{}{
		"stats": stats,
		"config": map[string]interface{}{
			"threshold":          cfg.Threshold,
			"shingle_tokens":     cfg.TokensInWord,
			"num_hash_functions": cfg.NumHashFunctions,
			"bands":              cfg.Bands,
			"rows":               cfg.Rows,
		},
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// HandleClearIndex handles the clear_index tool
func (h *HandlerSet) HandleClearIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h.mu.Lock()
	cleared := 0
	if h.index != nil {
		cleared = h.index.Size()
		h.index.ClearDocuments()
	}
	h.mu.Unlock()

	response := map[string]interface{}{
		"cleared_documents": cleared,
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// buildRequest maps scan_duplicates arguments onto a scan request, with the
// loaded configuration supplying everything the client leaves out.
func (h *HandlerSet) buildRequest(path string, args map[string]interface{}) *domain.DedupRequest {
	cfg := h.deps.Config()

	req := &domain.DedupRequest{
		Paths:           []string{path},
		Recursive:       true,
		IncludePatterns: cfg.Input.IncludePatterns,
		ExcludePatterns: cfg.Input.ExcludePatterns,

		SimilarityThreshold: cfg.Sketch.SimilarityThreshold,
		ShingleTokens:       cfg.Sketch.ShingleTokens,
		NumHashFunctions:    cfg.Sketch.NumHashFunctions,
		Bands:               cfg.Sketch.Bands,
		Rows:                cfg.Sketch.Rows,
		Seed:                cfg.Sketch.Seed,

		OutputFormat: domain.OutputFormatJSON,
		SortBy:       domain.SortBySimilarity,
	}

	if cfg.Input.Recursive != nil {
		req.Recursive = *cfg.Input.Recursive
	}
	if v, ok := args["recursive"].(bool); ok {
		req.Recursive = v
	}
	if v, ok := args["similarity_threshold"].(float64); ok {
		req.SimilarityThreshold = v
	}
	if v, ok := args["seed"].(float64); ok {
		req.Seed = int64(v)
	}

	return req
}

// loadDependencies builds the handler dependencies from an optional config
// file path, falling back to discovery from the working directory.
func loadDependencies(configPath string) *Dependencies {
	var cfg *config.DedupConfig
	var err error

	if configPath != "" {
		cfg, err = config.NewTomlConfigLoader().LoadConfigFile(configPath)
	} else {
		cfg, err = config.NewTomlConfigLoader().LoadConfig(".")
	}
	if err != nil {
		cfg = config.DefaultDedupConfig()
	}

	return NewDependencies(cfg, configPath)
}

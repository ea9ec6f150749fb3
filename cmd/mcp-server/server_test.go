package main

import (
	"context"
	"testing"

	"github.com/eshaffer321/fintrack-go/pkg/fintrack"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// TestServerInitialization verifies that the server can initialize without panicking
// This catches jsonschema validation errors and other startup issues
func TestServerInitialization(t *testing.T) {
	client, err := fintrack.Open(context.Background(), &fintrack.ClientOptions{})
	require.NoError(t, err)
	defer client.Close()

	// Create MCP server
	impl := &mcp.Implementation{
		Name:    "fintrack",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	// This catches jsonschema tag errors, tool registration issues, etc.
	require.NotPanics(t, func() {
		registerTools(server, client)
	})
}

// Package mcptools exposes the translation engine as MCP tools over stdio.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewServer creates an MCP server with all four translation tools
// registered.
func NewServer(svc *TranslateService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "polyglot-translate",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "translate_code",
		Description: "Translate source code between languages. Parses the input into a universal intermediate representation and regenerates skeletal code in the target language, preserving signatures, types and structure.",
	}, svc.TranslateCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_code",
		Description: "Parse source code into the universal intermediate representation and return the signature projection of every function and method: name, parameters, return type, dependencies and external calls.",
	}, svc.ParseCode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_languages",
		Description: "List every supported language with its recognized file extensions.",
	}, svc.ListLanguages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_round_trip",
		Description: "Structurally compare a translation against its original: re-parses the generated code and reports missing functions, extra functions and parameter-count mismatches. A clean report proves structural fidelity only, not behavioral equivalence.",
	}, svc.ValidateRoundTrip)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until the
// context is canceled or the peer disconnects.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

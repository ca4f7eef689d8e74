package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/orderhub/orderhub/internal/openapi"
)

// registerResources adds MCP resource definitions to the server. Resources
// provide read-only data that LLM clients can load into their context.
func (s *MCPServer) registerResources(srv *server.MCPServer) {

	srv.AddResource(
		mcp.NewResource(
			"orderhub://openapi.json",
			"OrderHub API Specification",
			mcp.WithResourceDescription(
				"The OpenAPI 3.1 document for the orders and products API, "+
					"including all schemas and the error envelope.",
			),
			mcp.WithMIMEType("application/json"),
		),
		s.handleOpenAPIResource,
	)

	srv.AddResource(
		mcp.NewResource(
			"orderhub://products",
			"Product Catalog",
			mcp.WithResourceDescription(
				"All catalog products that can be attached to orders.",
			),
			mcp.WithMIMEType("application/json"),
		),
		s.handleProductsResource,
	)
}

func (s *MCPServer) handleOpenAPIResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	doc := openapi.Generate(s.baseURL, s.version)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *MCPServer) handleProductsResource(
	ctx context.Context,
	request mcp.ReadResourceRequest,
) ([]mcp.ResourceContents, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal products: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

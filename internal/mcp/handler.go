package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/orderhub/orderhub/internal/order"
)

// handleListOrders serves the orderhub_list_orders tool.
func (s *MCPServer) handleListOrders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, err := s.identity()
	if err != nil {
		return toolError("credential rejected: %v", err)
	}

	page, err := s.controller.List(ctx, identity, order.Page{
		Offset: request.GetInt("offset", 0),
		Count:  request.GetInt("count", 0),
	})
	if err != nil {
		return toolError("list orders: %v", err)
	}
	return successJSON(page)
}

// handleGetOrder serves the orderhub_get_order tool.
func (s *MCPServer) handleGetOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, err := s.identity()
	if err != nil {
		return toolError("credential rejected: %v", err)
	}

	id, err := request.RequireInt("id")
	if err != nil {
		return toolError("missing required parameter %q", "id")
	}

	result, err := s.controller.Get(ctx, identity, int64(id))
	if err != nil {
		return toolError("get order: %v", err)
	}
	return successJSON(result)
}

// handleCreateOrder serves the orderhub_create_order tool.
func (s *MCPServer) handleCreateOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identity, err := s.identity()
	if err != nil {
		return toolError("credential rejected: %v", err)
	}

	customer, err := request.RequireString("customer")
	if err != nil {
		return toolError("missing required parameter %q", "customer")
	}

	in := order.CreateInput{
		Customer: customer,
		Address: order.AddressInput{
			Street:      request.GetString("street", ""),
			ZipCode:     request.GetString("zip_code", ""),
			CountryCode: request.GetString("country_code", ""),
		},
	}
	if comment := request.GetString("comment", ""); comment != "" {
		in.Comment = &comment
	}
	if owner := request.GetInt("owner", 0); owner != 0 {
		o := int64(owner)
		in.Owner = &o
	}
	in.ProductIDs = int64SliceArg(request, "product_ids")

	result, err := s.controller.Create(ctx, identity, in)
	if err != nil {
		return toolError("create order: %v", err)
	}
	return successJSON(result)
}

// handleListProducts serves the orderhub_list_products tool.
func (s *MCPServer) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return toolError("list products: %v", err)
	}
	return successJSON(products)
}

// int64SliceArg extracts an array argument of numeric ids. JSON numbers
// arrive as float64; anything else is skipped.
func int64SliceArg(request mcp.CallToolRequest, key string) []int64 {
	args := request.GetArguments()
	if args == nil {
		return nil
	}
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(raw))
	for _, item := range raw {
		if f, ok := item.(float64); ok {
			out = append(out, int64(f))
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// successJSON marshals data to JSON and returns it as a tool result.
func successJSON(data interface{}) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// toolError returns a tool-level error result. Errors returned this way are
// visible to the LLM so it can self-correct; they do NOT terminate the MCP
// session.
func toolError(format string, args ...interface{}) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}

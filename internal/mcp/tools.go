package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// registerTools registers all orderhub MCP tools on the given server.
func (s *MCPServer) registerTools(srv *server.MCPServer) {

	srv.AddTool(
		mcp.NewTool("orderhub_list_orders",
			mcp.WithDescription(
				"List the orders visible to the configured credential, newest first. "+
					"Returns a page of orders plus the total match count. Visibility is "+
					"owner-scoped: only orders whose owner the credential's role grants "+
					"cover are returned.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("offset",
				mcp.Description("Number of orders to skip (default 0)"),
			),
			mcp.WithNumber("count",
				mcp.Description("Page size (default 10)"),
			),
		),
		s.handleListOrders,
	)

	srv.AddTool(
		mcp.NewTool("orderhub_get_order",
			mcp.WithDescription(
				"Fetch a single order by id. Orders owned by users outside the "+
					"credential's grants report not-found, the same as missing ids.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
			mcp.WithNumber("id",
				mcp.Required(),
				mcp.Description("Order id"),
			),
		),
		s.handleGetOrder,
	)

	srv.AddTool(
		mcp.NewTool("orderhub_create_order",
			mcp.WithDescription(
				"Create a new order. The owner defaults to the credential's own "+
					"subject; setting an explicit owner requires a delegated grant for "+
					"that user. Street, zip code and country code are all required.",
			),
			mcp.WithToolAnnotation(mutatingAnnotation()),
			mcp.WithString("customer",
				mcp.Required(),
				mcp.Description("Customer name the order is for"),
			),
			mcp.WithString("comment",
				mcp.Description("Free-text comment"),
			),
			mcp.WithString("street",
				mcp.Required(),
				mcp.Description("Shipping address street"),
			),
			mcp.WithString("zip_code",
				mcp.Required(),
				mcp.Description("Shipping address zip code"),
			),
			mcp.WithString("country_code",
				mcp.Required(),
				mcp.Description("Shipping address country code"),
			),
			mcp.WithNumber("owner",
				mcp.Description("Owner user id; omit to create for the credential's subject"),
			),
			mcp.WithArray("product_ids",
				mcp.Description("Catalog product ids to attach to the order"),
			),
		),
		s.handleCreateOrder,
	)

	srv.AddTool(
		mcp.NewTool("orderhub_list_products",
			mcp.WithDescription(
				"List the product catalog. Products are read-only reference data "+
					"used when creating or updating orders.",
			),
			mcp.WithToolAnnotation(readOnlyAnnotation()),
		),
		s.handleListProducts,
	)
}

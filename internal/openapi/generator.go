// Package openapi generates the OpenAPI 3.1 document for the orders and
// products API, served at /openapi.json.
package openapi

import (
	"github.com/getkin/kin-openapi/openapi3"
)

// Generate builds the API document. baseURL is the externally visible server
// URL, version the build version reported in the info block.
func Generate(baseURL, version string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "OrderHub API",
			Description: "Owner-scoped order management. Every order operation is authorized against the owner ids the caller's role grants cover.",
			Version:     version,
		},
		Servers: openapi3.Servers{
			{URL: baseURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{}
	components.SecuritySchemes = openapi3.SecuritySchemes{}
	doc.Components = &components

	doc.Components.SecuritySchemes["bearerAuth"] = &openapi3.SecuritySchemeRef{
		Value: &openapi3.SecurityScheme{
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	doc.Security = openapi3.SecurityRequirements{
		{"bearerAuth": {}},
	}

	registerSchemas(doc)

	doc.Paths = openapi3.NewPaths()
	addOrderPaths(doc)
	addProductPaths(doc)
	return doc
}

func registerSchemas(doc *openapi3.T) {
	doc.Components.Schemas["ErrorResponse"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"error": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type: &openapi3.Types{"object"},
						Properties: openapi3.Schemas{
							"kind": &openapi3.SchemaRef{Value: &openapi3.Schema{
								Type: &openapi3.Types{"string"},
								Enum: []interface{}{
									"UNAUTHENTICATED", "PERMISSION_DENIED",
									"NOT_FOUND", "INVALID_ARGUMENT", "INTERNAL",
								},
							}},
							"message": stringSchema(),
							"context": &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"object"}}},
						},
					},
				},
			},
		},
	}

	doc.Components.Schemas["Address"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:     &openapi3.Types{"object"},
			Required: []string{"street", "zip_code", "country_code"},
			Properties: openapi3.Schemas{
				"id":           int64Schema(),
				"street":       stringSchema(),
				"zip_code":     stringSchema(),
				"country_code": stringSchema(),
			},
		},
	}

	doc.Components.Schemas["Product"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"id":          int64Schema(),
				"name":        stringSchema(),
				"description": stringSchema(),
			},
		},
	}

	doc.Components.Schemas["Order"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"id":       int64Schema(),
				"user":     int64Schema(),
				"customer": stringSchema(),
				"comment":  stringSchema(),
				"address":  openapi3.NewSchemaRef("#/components/schemas/Address", nil),
				"products": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: openapi3.NewSchemaRef("#/components/schemas/Product", nil),
					},
				},
				"created_by": int64Schema(),
				"created_at": dateTimeSchema(),
				"updated_by": int64Schema(),
				"updated_at": dateTimeSchema(),
				"deleted_by": int64Schema(),
				"deleted_at": dateTimeSchema(),
			},
		},
	}

	doc.Components.Schemas["OrderPage"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"orders": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: openapi3.NewSchemaRef("#/components/schemas/Order", nil),
					},
				},
				"offset": intSchema(),
				"count":  intSchema(),
				"total":  int64Schema(),
			},
		},
	}

	doc.Components.Schemas["CreateOrderRequest"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:     &openapi3.Types{"object"},
			Required: []string{"customer", "address"},
			Properties: openapi3.Schemas{
				"customer": stringSchema(),
				"comment":  stringSchema(),
				"address":  openapi3.NewSchemaRef("#/components/schemas/Address", nil),
				"owner":    int64Schema(),
				"product_ids": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: int64Schema(),
					},
				},
			},
		},
	}

	doc.Components.Schemas["UpdateOrderRequest"] = &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type: &openapi3.Types{"object"},
			Properties: openapi3.Schemas{
				"customer": stringSchema(),
				"comment":  stringSchema(),
				"address":  openapi3.NewSchemaRef("#/components/schemas/Address", nil),
				"owner":    int64Schema(),
				"product_ids": &openapi3.SchemaRef{
					Value: &openapi3.Schema{
						Type:  &openapi3.Types{"array"},
						Items: int64Schema(),
					},
				},
			},
		},
	}
}

func addOrderPaths(doc *openapi3.T) {
	orderRef := openapi3.NewSchemaRef("#/components/schemas/Order", nil)
	pageRef := openapi3.NewSchemaRef("#/components/schemas/OrderPage", nil)

	doc.Paths.Set("/api/v1/order", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"orders"},
			Summary:     "List orders",
			Description: "Returns a page of active orders whose owner the caller may read, newest first.",
			OperationID: "listOrders",
			Parameters: openapi3.Parameters{
				queryParam("offset", "Number of orders to skip. Negative values are treated as 0."),
				queryParam("count", "Page size. Values below 1 are treated as 10."),
			},
			Responses: newResponses("200", "A page of orders", pageRef),
		},
		Post: &openapi3.Operation{
			Tags:        []string{"orders"},
			Summary:     "Create an order",
			OperationID: "createOrder",
			RequestBody: jsonBody("CreateOrderRequest"),
			Responses:   newResponses("201", "The created order", orderRef),
		},
	})

	doc.Paths.Set("/api/v1/order/{id}", &openapi3.PathItem{
		Parameters: openapi3.Parameters{idParam()},
		Get: &openapi3.Operation{
			Tags:        []string{"orders"},
			Summary:     "Get an order",
			OperationID: "getOrder",
			Responses:   newResponses("200", "The order", orderRef),
		},
		Put: &openapi3.Operation{
			Tags:        []string{"orders"},
			Summary:     "Update an order",
			Description: "Absent fields keep their stored value. Changing the owner requires create access on the new owner and delete access on the current one.",
			OperationID: "updateOrder",
			RequestBody: jsonBody("UpdateOrderRequest"),
			Responses:   newResponses("200", "The updated order", orderRef),
		},
		Delete: &openapi3.Operation{
			Tags:        []string{"orders"},
			Summary:     "Delete an order",
			Description: "Soft delete. The order stops appearing in reads but is retained.",
			OperationID: "deleteOrder",
			Responses:   newResponses("200", "The deleted order", orderRef),
		},
	})
}

func addProductPaths(doc *openapi3.T) {
	productRef := openapi3.NewSchemaRef("#/components/schemas/Product", nil)

	doc.Paths.Set("/api/v1/product", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{"products"},
			Summary:     "List products",
			OperationID: "listProducts",
			Responses: newResponses("200", "All catalog products", &openapi3.SchemaRef{
				Value: &openapi3.Schema{
					Type:  &openapi3.Types{"array"},
					Items: productRef,
				},
			}),
		},
	})

	doc.Paths.Set("/api/v1/product/{id}", &openapi3.PathItem{
		Parameters: openapi3.Parameters{idParam()},
		Get: &openapi3.Operation{
			Tags:        []string{"products"},
			Summary:     "Get a product",
			OperationID: "getProduct",
			Responses:   newResponses("200", "The product", productRef),
		},
	})
}

func newResponses(status, description string, schema *openapi3.SchemaRef) *openapi3.Responses {
	responses := openapi3.NewResponses()
	responses.Set(status, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &description,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})
	errDesc := "Error"
	responses.Set("default", &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &errDesc,
			Content: openapi3.NewContentWithJSONSchemaRef(
				openapi3.NewSchemaRef("#/components/schemas/ErrorResponse", nil)),
		},
	})
	return responses
}

func jsonBody(schemaName string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: &openapi3.RequestBody{
			Required: true,
			Content: openapi3.NewContentWithJSONSchemaRef(
				openapi3.NewSchemaRef("#/components/schemas/"+schemaName, nil)),
		},
	}
}

func idParam() *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:     "id",
			In:       "path",
			Required: true,
			Schema:   int64Schema(),
		},
	}
}

func queryParam(name, description string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{
		Value: &openapi3.Parameter{
			Name:        name,
			In:          "query",
			Description: description,
			Schema:      intSchema(),
		},
	}
}

func stringSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}}}
}

func intSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int32"}}
}

func int64Schema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"integer"}, Format: "int64"}}
}

func dateTimeSchema() *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Value: &openapi3.Schema{Type: &openapi3.Types{"string"}, Format: "date-time"}}
}

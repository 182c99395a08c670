package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/loopwork-ai/shopmcp/jsonrpc"
	"github.com/loopwork-ai/shopmcp/shopify"
)

// toolFunc executes a tool against the server's Shopify client and returns
// the text payload for the result content block. A returned *jsonrpc.Error
// is relayed as-is; any other error becomes an internal-error response.
// Business-level failures reported by Shopify (user errors, zero matches)
// are successful calls and come back as text, never as an error.
type toolFunc func(ctx context.Context, s *Server, args map[string]interface{}) (string, error)

// tool pairs a published descriptor with its resolved argument schema and
// the adapter that executes it
type tool struct {
	Tool
	resolved *jsonschema.Resolved
	call     toolFunc
}

func registerTools() ([]tool, error) {
	defs := []struct {
		name        string
		description string
		schema      *jsonschema.Schema
		call        toolFunc
	}{
		{
			name:        "get-product-count",
			description: "Get the total number of products in the store",
			schema: &jsonschema.Schema{
				Type:       "object",
				Properties: map[string]*jsonschema.Schema{},
			},
			call: callGetProductCount,
		},
		{
			name:        "delete-product-by-name",
			description: "Find a product by its exact title and delete it. If several products share the title, the first match is deleted.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"productName": {
						Type:        "string",
						Description: "Exact title of the product to delete",
					},
				},
				Required: []string{"productName"},
			},
			call: callDeleteProductByName,
		},
		{
			name:        "update-order-address",
			description: "Update the shipping and/or billing address of an order, identified by id or by order name (e.g. #1001)",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"orderId": {
						Type:        "string",
						Description: "Order GID (gid://shopify/Order/...)",
					},
					"orderName": {
						Type:        "string",
						Description: "Human-readable order name, used to look up the order when no id is given",
					},
					"updates": {
						Type: "object",
						Properties: map[string]*jsonschema.Schema{
							"shippingAddress": addressSchema(),
							"billingAddress":  addressSchema(),
						},
					},
				},
				Required: []string{"updates"},
			},
			call: callUpdateOrderAddress,
		},
	}

	tools := make([]tool, 0, len(defs))
	for _, def := range defs {
		resolved, err := def.schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("error resolving schema for %s: %w", def.name, err)
		}
		tools = append(tools, tool{
			Tool: Tool{
				Name:        def.name,
				Description: def.description,
				InputSchema: def.schema,
			},
			resolved: resolved,
			call:     def.call,
		})
	}

	return tools, nil
}

func addressSchema() *jsonschema.Schema {
	fields := []string{"address1", "address2", "city", "province", "zip", "country", "firstName", "lastName", "company", "phone"}
	properties := make(map[string]*jsonschema.Schema, len(fields))
	for _, field := range fields {
		properties[field] = &jsonschema.Schema{Type: "string"}
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: properties,
	}
}

func callGetProductCount(ctx context.Context, s *Server, _ map[string]interface{}) (string, error) {
	count, err := s.shopify.ProductsCount(ctx)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(struct {
		Count int `json:"count"`
	}{Count: count})
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func callDeleteProductByName(ctx context.Context, s *Server, args map[string]interface{}) (string, error) {
	name, _ := args["productName"].(string)
	if strings.TrimSpace(name) == "" {
		return "", jsonrpc.NewError(jsonrpc.ErrInvalidParams, "productName must be a non-empty string")
	}

	product, err := s.shopify.FindProductByTitle(ctx, name)
	if err != nil {
		return "", err
	}
	if product == nil {
		return fmt.Sprintf("No product found with the name %q.", name), nil
	}

	// Not transactional: once a match is chosen the delete is single-shot,
	// and a failure here leaves the product in place.
	deletedID, userErrs, err := s.shopify.DeleteProduct(ctx, product.ID)
	if err != nil {
		return "", err
	}
	if len(userErrs) > 0 {
		return fmt.Sprintf("Failed to delete product %q (%s):\n%s", product.Title, product.ID, shopify.FormatUserErrors(userErrs)), nil
	}

	if deletedID == "" {
		deletedID = product.ID
	}
	return fmt.Sprintf("Successfully deleted product %q (%s).", product.Title, deletedID), nil
}

// updateOrderAddressArgs is the typed form of the update-order-address
// arguments, decoded after schema validation
type updateOrderAddressArgs struct {
	OrderId   string `json:"orderId"`
	OrderName string `json:"orderName"`
	Updates   struct {
		ShippingAddress *shopify.MailingAddress `json:"shippingAddress"`
		BillingAddress  *shopify.MailingAddress `json:"billingAddress"`
	} `json:"updates"`
}

func callUpdateOrderAddress(ctx context.Context, s *Server, args map[string]interface{}) (string, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	var params updateOrderAddressArgs
	if err := json.Unmarshal(raw, &params); err != nil {
		return "", jsonrpc.NewError(jsonrpc.ErrInvalidParams, err.Error())
	}

	if params.Updates.ShippingAddress == nil && params.Updates.BillingAddress == nil {
		return "", jsonrpc.NewError(jsonrpc.ErrInvalidParams, "updates must include at least one of shippingAddress or billingAddress")
	}
	if params.OrderId == "" && params.OrderName == "" {
		return "", jsonrpc.NewError(jsonrpc.ErrInvalidParams, "one of orderId or orderName is required")
	}

	orderID := params.OrderId
	if orderID == "" {
		// A lookup failure here is a remote fault and surfaces as a protocol
		// error; a clean zero-match result is reported as text.
		order, err := s.shopify.FindOrderByName(ctx, params.OrderName)
		if err != nil {
			return "", err
		}
		if order == nil {
			return fmt.Sprintf("No order found with name %q.", params.OrderName), nil
		}
		orderID = order.ID
	}

	order, userErrs, err := s.shopify.UpdateOrderAddresses(ctx, orderID, params.Updates.ShippingAddress, params.Updates.BillingAddress)
	if err != nil {
		return "", err
	}
	if len(userErrs) > 0 {
		return fmt.Sprintf("Failed to update order %s:\n%s", orderID, shopify.FormatUserErrors(userErrs)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Successfully updated order %s", orderID)
	if order != nil && order.Name != "" {
		fmt.Fprintf(&b, " (%s)", order.Name)
	}
	b.WriteString(".")
	if order != nil {
		if order.ShippingAddress != nil {
			addr, _ := json.Marshal(order.ShippingAddress)
			fmt.Fprintf(&b, "\nShipping address: %s", addr)
		}
		if order.BillingAddress != nil {
			addr, _ := json.Marshal(order.BillingAddress)
			fmt.Fprintf(&b, "\nBilling address: %s", addr)
		}
	}
	return b.String(), nil
}

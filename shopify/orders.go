package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

const findOrderQuery = `
query FindOrder($query: String!) {
  orders(first: 1, query: $query) {
    edges {
      node {
        id
        name
      }
    }
  }
}`

const orderUpdateMutation = `
mutation UpdateOrder($input: OrderInput!) {
  orderUpdate(input: $input) {
    order {
      id
      name
      shippingAddress {
        address1
        address2
        city
        province
        zip
        country
        firstName
        lastName
        company
        phone
      }
      billingAddress {
        address1
        address2
        city
        province
        zip
        country
        firstName
        lastName
        company
        phone
      }
    }
    userErrors {
      field
      message
    }
  }
}`

// FindOrderByName returns the first order matching the human-readable order
// name (e.g. "#1001"), or nil if none matches.
func (c *Client) FindOrderByName(ctx context.Context, name string) (*Order, error) {
	variables := map[string]interface{}{
		"query": fmt.Sprintf(`name:"%s"`, escapeSearchTerm(name)),
	}

	data, err := c.Execute(ctx, findOrderQuery, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		Orders struct {
			Edges []struct {
				Node Order `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("error decoding order search: %w", err)
	}

	if len(result.Orders.Edges) == 0 {
		return nil, nil
	}
	order := result.Orders.Edges[0].Node
	return &order, nil
}

// UpdateOrderAddresses updates the shipping and/or billing address of an
// order by its GID. Either address may be nil to leave it unchanged.
func (c *Client) UpdateOrderAddresses(ctx context.Context, id string, shipping, billing *MailingAddress) (*Order, []UserError, error) {
	input := map[string]interface{}{"id": id}
	if shipping != nil {
		input["shippingAddress"] = shipping
	}
	if billing != nil {
		input["billingAddress"] = billing
	}

	data, err := c.Execute(ctx, orderUpdateMutation, map[string]interface{}{"input": input})
	if err != nil {
		return nil, nil, err
	}

	var result struct {
		OrderUpdate struct {
			Order      *Order      `json:"order"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"orderUpdate"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, nil, fmt.Errorf("error decoding order update: %w", err)
	}

	return result.OrderUpdate.Order, result.OrderUpdate.UserErrors, nil
}

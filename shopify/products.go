package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

const productsCountQuery = `
query {
  productsCount {
    count
  }
}`

const findProductQuery = `
query FindProduct($query: String!) {
  products(first: 1, query: $query) {
    edges {
      node {
        id
        title
      }
    }
  }
}`

const productDeleteMutation = `
mutation DeleteProduct($input: ProductDeleteInput!) {
  productDelete(input: $input) {
    deletedProductId
    userErrors {
      field
      message
    }
  }
}`

// ProductsCount returns the total number of products in the store
func (c *Client) ProductsCount(ctx context.Context) (int, error) {
	data, err := c.Execute(ctx, productsCountQuery, nil)
	if err != nil {
		return 0, err
	}

	var result struct {
		ProductsCount struct {
			Count int `json:"count"`
		} `json:"productsCount"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return 0, fmt.Errorf("error decoding products count: %w", err)
	}

	return result.ProductsCount.Count, nil
}

// FindProductByTitle returns the first product whose title exactly matches
// the given value, or nil if the store has none.
func (c *Client) FindProductByTitle(ctx context.Context, title string) (*Product, error) {
	variables := map[string]interface{}{
		"query": fmt.Sprintf(`title:"%s"`, escapeSearchTerm(title)),
	}

	data, err := c.Execute(ctx, findProductQuery, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		Products struct {
			Edges []struct {
				Node Product `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("error decoding product search: %w", err)
	}

	if len(result.Products.Edges) == 0 {
		return nil, nil
	}
	product := result.Products.Edges[0].Node
	return &product, nil
}

// DeleteProduct deletes a product by its GID. A populated userErrors slice
// reports a business-level refusal, not a failed call.
func (c *Client) DeleteProduct(ctx context.Context, id string) (string, []UserError, error) {
	variables := map[string]interface{}{
		"input": map[string]interface{}{"id": id},
	}

	data, err := c.Execute(ctx, productDeleteMutation, variables)
	if err != nil {
		return "", nil, err
	}

	var result struct {
		ProductDelete struct {
			DeletedProductId string      `json:"deletedProductId"`
			UserErrors       []UserError `json:"userErrors"`
		} `json:"productDelete"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", nil, fmt.Errorf("error decoding product delete: %w", err)
	}

	return result.ProductDelete.DeletedProductId, result.ProductDelete.UserErrors, nil
}

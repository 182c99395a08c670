package shopify

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductsCount(t *testing.T) {
	client, _ := newStub(t, func(query string, _ map[string]interface{}) (int, string) {
		assert.Contains(t, query, "productsCount")
		return http.StatusOK, `{"data": {"productsCount": {"count": 118}}}`
	})

	count, err := client.ProductsCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 118, count)
}

func TestFindProductByTitle(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client, _ := newStub(t, func(query string, variables map[string]interface{}) (int, string) {
			assert.Contains(t, query, "products(first: 1")
			assert.Equal(t, `title:"Widget"`, variables["query"])
			return http.StatusOK, `{"data": {"products": {"edges": [{"node": {"id": "gid://shopify/Product/1", "title": "Widget"}}]}}}`
		})

		product, err := client.FindProductByTitle(context.Background(), "Widget")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "gid://shopify/Product/1", product.ID)
		assert.Equal(t, "Widget", product.Title)
	})

	t.Run("not found returns nil without error", func(t *testing.T) {
		client, _ := newStub(t, func(string, map[string]interface{}) (int, string) {
			return http.StatusOK, `{"data": {"products": {"edges": []}}}`
		})

		product, err := client.FindProductByTitle(context.Background(), "Nothing")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("title with quotes is escaped in the search term", func(t *testing.T) {
		client, _ := newStub(t, func(_ string, variables map[string]interface{}) (int, string) {
			assert.Equal(t, `title:"6\" Widget"`, variables["query"])
			return http.StatusOK, `{"data": {"products": {"edges": []}}}`
		})

		_, err := client.FindProductByTitle(context.Background(), `6" Widget`)
		require.NoError(t, err)
	})
}

func TestDeleteProduct(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, _ := newStub(t, func(query string, variables map[string]interface{}) (int, string) {
			assert.Contains(t, query, "productDelete")
			input := variables["input"].(map[string]interface{})
			assert.Equal(t, "gid://shopify/Product/1", input["id"])
			return http.StatusOK, `{"data": {"productDelete": {"deletedProductId": "gid://shopify/Product/1", "userErrors": []}}}`
		})

		deletedID, userErrs, err := client.DeleteProduct(context.Background(), "gid://shopify/Product/1")
		require.NoError(t, err)
		assert.Empty(t, userErrs)
		assert.Equal(t, "gid://shopify/Product/1", deletedID)
	})

	t.Run("user errors are data, not an error", func(t *testing.T) {
		client, _ := newStub(t, func(string, map[string]interface{}) (int, string) {
			return http.StatusOK, `{"data": {"productDelete": {"deletedProductId": null, "userErrors": [{"field": ["id"], "message": "Product is locked"}]}}}`
		})

		deletedID, userErrs, err := client.DeleteProduct(context.Background(), "gid://shopify/Product/1")
		require.NoError(t, err)
		assert.Empty(t, deletedID)
		require.Len(t, userErrs, 1)
		assert.Equal(t, "id: Product is locked", userErrs[0].String())
	})
}

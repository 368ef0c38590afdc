package catalog

import (
	"net/http"
	"strconv"

	"storefront/internal/handler"
	"storefront/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listCategories = store.ListCategories
	getCategory    = store.GetCategory
	categoryExists = store.CategoryExists
	createCategory = store.CreateCategory
	updateCategory = store.UpdateCategory
	deleteCategory = store.DeleteCategory

	listProducts  = store.ListProducts
	getProduct    = store.GetProduct
	createProduct = store.CreateProduct
	updateProduct = store.UpdateProduct
	deleteProduct = store.DeleteProduct
)

func errNotFound() error {
	return handler.NewError(http.StatusNotFound, "Not found.")
}

// parseID 非正整數的 id 視為不存在
func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errNotFound()
	}
	return id, nil
}

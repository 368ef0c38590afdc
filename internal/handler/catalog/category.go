package catalog

import (
	"errors"
	"net/http"

	"storefront/internal/api"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/store"

	"github.com/labstack/echo/v4"
)

// ListCategoriesHandler 列出所有分類
// @Summary     分類列表
// @Tags        categories
// @Produce     json
// @Success     200 {array}  model.Category
// @Failure     500 {object} api.ErrorResponse
// @Router      /categories/ [get]
func ListCategoriesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		categories, err := listCategories(c.Request().Context(), db)
		if err != nil {
			return err
		}
		if categories == nil {
			categories = []model.Category{}
		}
		return c.JSON(http.StatusOK, categories)
	}
}

// CreateCategoryHandler 新增分類
// @Summary     新增分類
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       body body     api.CategoryRequest true "分類資料"
// @Success     201  {object} model.Category
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /categories/ [post]
func CreateCategoryHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CategoryRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		category, err := createCategory(c.Request().Context(), db, &model.Category{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, category)
	}
}

// GetCategoryHandler 取得單一分類
// @Summary     取得分類
// @Tags        categories
// @Produce     json
// @Param       id  path     int true "分類 ID"
// @Success     200 {object} model.Category
// @Failure     404 {object} api.ErrorResponse
// @Router      /categories/{id}/ [get]
func GetCategoryHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		category, err := getCategory(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, category)
	}
}

// UpdateCategoryHandler PUT 取代全部欄位；partial 為 true 時 (PATCH) 只覆寫有提供的欄位
// @Summary     更新分類
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       id   path     int                 true "分類 ID"
// @Param       body body     api.CategoryRequest true "分類資料"
// @Success     200  {object} model.Category
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Failure     404  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /categories/{id}/ [put]
// @Router      /categories/{id}/ [patch]
func UpdateCategoryHandler(db database.DB, partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := parseID(c)
		if err != nil {
			return err
		}
		current, err := getCategory(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return err
		}

		var req api.CategoryRequest
		if partial {
			req = api.CategoryRequest{Name: current.Name, Description: current.Description}
		}
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}

		current.Name = req.Name
		current.Description = req.Description
		err = updateCategory(ctx, db, current)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, current)
	}
}

// DeleteCategoryHandler 刪除分類；仍有商品引用時回傳 400
// @Summary     刪除分類
// @Tags        categories
// @Param       id path int true "分類 ID"
// @Success     204
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /categories/{id}/ [delete]
func DeleteCategoryHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		err = deleteCategory(c.Request().Context(), db, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			return errNotFound()
		case errors.Is(err, store.ErrReferenced):
			return handler.NewError(http.StatusBadRequest, "Cannot delete a category that still has products.")
		case err != nil:
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

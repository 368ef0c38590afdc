package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/api"
	"storefront/internal/database"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/storage"
	"storefront/internal/store"

	"github.com/labstack/echo/v4"
)

const imageDir = "products"

func productResponse(p *model.Product, files storage.Storage) api.ProductResponse {
	resp := api.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
	if p.Image != nil && *p.Image != "" {
		url := files.URL(*p.Image)
		resp.Image = &url
	}
	return resp
}

func invalidCategory(id api.PK) error {
	return handler.FieldError("validation failed", map[string]string{
		"category": fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id),
	})
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// saveImage 儲存 multipart 的 image 欄位；未上傳時回傳 nil
func saveImage(c echo.Context, files storage.Storage) (*string, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, handler.NewError(http.StatusBadRequest, "invalid request body")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	ref, err := files.Save(c.Request().Context(), imageDir, f)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return nil, handler.FieldError("validation failed", map[string]string{
			"image": "Upload a valid image. The file you uploaded was either not an image or a corrupted image.",
		})
	case errors.Is(err, storage.ErrTooLarge):
		return nil, handler.FieldError("validation failed", map[string]string{
			"image": "The uploaded image is too large.",
		})
	case err != nil:
		return nil, err
	}
	return &ref, nil
}

// removeImage 清除檔案；失敗不影響回應
func removeImage(c echo.Context, files storage.Storage, ref *string) {
	if ref == nil {
		return
	}
	_ = files.Delete(c.Request().Context(), *ref)
}

// ListProductsHandler 列出商品
// @Summary     商品列表
// @Description search 不分大小寫比對名稱或描述；ordering 可為 price、-price、created_at、-created_at
// @Tags        products
// @Produce     json
// @Param       search   query    string false "搜尋字串"
// @Param       ordering query    string false "排序欄位"
// @Success     200      {array}  api.ProductResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /products/ [get]
func ListProductsHandler(db database.DB, files storage.Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		products, err := listProducts(c.Request().Context(), db, store.ProductFilter{
			Search:   strings.TrimSpace(c.QueryParam("search")),
			Ordering: strings.TrimSpace(c.QueryParam("ordering")),
		})
		if err != nil {
			return err
		}
		out := make([]api.ProductResponse, 0, len(products))
		for i := range products {
			out = append(out, productResponse(&products[i], files))
		}
		return c.JSON(http.StatusOK, out)
	}
}

// GetProductHandler 取得單一商品
// @Summary     取得商品
// @Tags        products
// @Produce     json
// @Param       id  path     int true "商品 ID"
// @Success     200 {object} api.ProductResponse
// @Failure     404 {object} api.ErrorResponse
// @Router      /products/{id}/ [get]
func GetProductHandler(db database.DB, files storage.Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := parseID(c)
		if err != nil {
			return err
		}
		product, err := getProduct(c.Request().Context(), db, id)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, productResponse(product, files))
	}
}

// CreateProductHandler 新增商品，可用 multipart/form-data 一併上傳圖片
// @Summary     新增商品
// @Tags        products
// @Accept      json,mpfd
// @Produce     json
// @Param       body body     api.ProductRequest true  "商品資料"
// @Param       image formData file              false "商品圖片"
// @Success     201  {object} api.ProductResponse
// @Failure     400  {object} api.ErrorResponse
// @Failure     401  {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /products/ [post]
func CreateProductHandler(db database.DB, files storage.Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		var req api.ProductRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		exists, err := categoryExists(ctx, db, int64(req.Category))
		if err != nil {
			return err
		}
		if !exists {
			return invalidCategory(req.Category)
		}

		image, err := saveImage(c, files)
		if err != nil {
			return err
		}
		product, err := createProduct(ctx, db, &model.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price.String(),
			CategoryID:  int64(req.Category),
			Image:       image,
		})
		if err != nil {
			removeImage(c, files, image)
			if errors.Is(err, store.ErrInvalidReference) {
				return invalidCategory(req.Category)
			}
			return err
		}
		return c.JSON(http.StatusCreated, productResponse(product, files))
	}
}

// UpdateProductHandler PUT 取代全部欄位；partial 為 true 時 (PATCH) 只覆寫有提供的欄位。
// 未上傳新圖片時保留原圖
// @Summary     更新商品
// @Tags        products
// @Accept      json,mpfd
// @Produce     json
// @Param       id    path     int                true  "商品 ID"
// @Param       body  body     api.ProductRequest true  "商品資料"
// @Param       image formData file               false "商品圖片"
// @Success     200   {object} api.ProductResponse
// @Failure     400   {object} api.ErrorResponse
// @Failure     401   {object} api.ErrorResponse
// @Failure     404   {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /products/{id}/ [put]
// @Router      /products/{id}/ [patch]
func UpdateProductHandler(db database.DB, files storage.Storage, partial bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := parseID(c)
		if err != nil {
			return err
		}
		current, err := getProduct(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return err
		}

		var req api.ProductRequest
		if partial {
			req = api.ProductRequest{
				Name:        current.Name,
				Description: current.Description,
				Price:       api.Price(current.Price),
				Category:    api.PK(current.CategoryID),
			}
		}
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		if int64(req.Category) != current.CategoryID {
			exists, err := categoryExists(ctx, db, int64(req.Category))
			if err != nil {
				return err
			}
			if !exists {
				return invalidCategory(req.Category)
			}
		}

		image, err := saveImage(c, files)
		if err != nil {
			return err
		}
		oldImage := current.Image
		current.Name = req.Name
		current.Description = req.Description
		current.Price = req.Price.String()
		current.CategoryID = int64(req.Category)
		if image != nil {
			current.Image = image
		}

		err = updateProduct(ctx, db, current)
		if err != nil {
			removeImage(c, files, image)
			switch {
			case errors.Is(err, store.ErrNotFound):
				return errNotFound()
			case errors.Is(err, store.ErrInvalidReference):
				return invalidCategory(req.Category)
			}
			return err
		}
		if image != nil {
			removeImage(c, files, oldImage)
		}
		return c.JSON(http.StatusOK, productResponse(current, files))
	}
}

// DeleteProductHandler 刪除商品與其圖片
// @Summary     刪除商品
// @Tags        products
// @Param       id path int true "商品 ID"
// @Success     204
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /products/{id}/ [delete]
func DeleteProductHandler(db database.DB, files storage.Storage) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id, err := parseID(c)
		if err != nil {
			return err
		}
		product, err := getProduct(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return err
		}
		err = deleteProduct(ctx, db, id)
		if errors.Is(err, store.ErrNotFound) {
			return errNotFound()
		}
		if err != nil {
			return err
		}
		removeImage(c, files, product.Image)
		return c.NoContent(http.StatusNoContent)
	}
}

package store

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, description, price::text, category_id, image, created_at, updated_at`

// ProductFilter 商品列表查詢條件
// Search 不分大小寫比對 name 或 description；Ordering 見 productOrderings
type ProductFilter struct {
	Search   string
	Ordering string
}

var productOrderings = map[string]string{
	"price":       "price ASC, id ASC",
	"-price":      "price DESC, id ASC",
	"created_at":  "created_at ASC, id ASC",
	"-created_at": "created_at DESC, id ASC",
}

// ValidOrdering 回報 ordering 參數是否受支援
func ValidOrdering(ordering string) bool {
	_, ok := productOrderings[ordering]
	return ok
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildProductListQuery 組出 SQL 與參數；未知的 ordering 會被忽略
func buildProductListQuery(f ProductFilter) (string, []any) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + productColumns + ` FROM products`)
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+likeEscaper.Replace(s)+"%")
		sb.WriteString(` WHERE (name ILIKE $1 OR description ILIKE $1)`)
	}
	order, ok := productOrderings[strings.TrimSpace(f.Ordering)]
	if !ok {
		order = "id ASC"
	}
	sb.WriteString(` ORDER BY ` + order)
	return sb.String(), args
}

func scanProduct(row interface{ Scan(...any) error }) (model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.CategoryID,
		&p.Image,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func ListProducts(ctx context.Context, db database.DB, f ProductFilter) ([]model.Product, error) {
	query, args := buildProductListQuery(f)
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Product, error) {
		return scanProduct(row)
	})
	if err != nil {
		return nil, fmt.Errorf("ListProducts: %w", err)
	}
	return out, nil
}

func GetProduct(ctx context.Context, db database.DB, id int64) (*model.Product, error) {
	p, err := scanProduct(db.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("GetProduct: %w", translate(err, false))
	}
	return &p, nil
}

// CreateProduct 寫入商品，category 不存在時回傳 ErrInvalidReference
func CreateProduct(ctx context.Context, db database.DB, p *model.Product) (*model.Product, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO products (name, description, price, category_id, image)
		 VALUES ($1, $2, $3::numeric, $4, $5)
		 RETURNING id, price::text, created_at, updated_at`,
		p.Name,
		p.Description,
		p.Price,
		p.CategoryID,
		p.Image,
	)
	if err := row.Scan(&p.ID, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", translate(err, false))
	}
	return p, nil
}

func UpdateProduct(ctx context.Context, db database.DB, p *model.Product) error {
	row := db.QueryRow(ctx,
		`UPDATE products
		 SET name = $1, description = $2, price = $3::numeric, category_id = $4, image = $5, updated_at = now()
		 WHERE id = $6
		 RETURNING price::text, created_at, updated_at`,
		p.Name,
		p.Description,
		p.Price,
		p.CategoryID,
		p.Image,
		p.ID,
	)
	if err := row.Scan(&p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("UpdateProduct: %w", translate(err, false))
	}
	return nil
}

func DeleteProduct(ctx context.Context, db database.DB, id int64) error {
	tag, err := db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("DeleteProduct: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteProduct: %w", ErrNotFound)
	}
	return nil
}

package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Price 接受 JSON 數字或字串，格式交由 price 規則檢查
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*p = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
	default:
		*p = Price(data)
	}
	return nil
}

func (p Price) String() string { return string(p) }

// InvalidPK 代表無法解析的主鍵，由 pk 規則回報為欄位錯誤
const InvalidPK PK = -1

// PK 關聯主鍵，接受 JSON 數字或數字字串
type PK int64

func (k *PK) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*k = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	return k.UnmarshalParam(string(data))
}

// UnmarshalParam 供 form 綁定使用
func (k *PK) UnmarshalParam(param string) error {
	param = strings.TrimSpace(param)
	if param == "" {
		*k = 0
		return nil
	}
	id, err := strconv.ParseInt(param, 10, 64)
	if err != nil {
		*k = InvalidPK
		return nil
	}
	*k = PK(id)
	return nil
}

// swagger:model api.CategoryRequest
type CategoryRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=255" example:"Laptops"`
	Description string `json:"description" form:"description" example:"Portable computers"`
}

// ProductRequest 可由 JSON 或 multipart/form-data 綁定；圖片另以 image 檔案欄位上傳
// swagger:model api.ProductRequest
type ProductRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=255" example:"Laptop"`
	Description string `json:"description" form:"description" example:"High-end gaming laptop"`
	Price       Price  `json:"price" form:"price" validate:"required,price" swaggertype:"string" example:"2500.00"`
	Category    PK     `json:"category" form:"category" validate:"required,pk" swaggertype:"integer" example:"1"`
}

// swagger:model api.ProductResponse
type ProductResponse struct {
	ID          int64     `json:"id" example:"1"`
	Name        string    `json:"name" example:"Laptop"`
	Description string    `json:"description" example:"High-end gaming laptop"`
	Price       string    `json:"price" example:"2500.00"`
	Category    int64     `json:"category" example:"1"`
	Image       *string   `json:"image" example:"/media/products/5f1c.png"`
	CreatedAt   time.Time `json:"created_at"`
}

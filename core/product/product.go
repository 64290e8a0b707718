package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	InStock    Status = "in_stock"
	Featured   Status = "featured"
	OutOfStock Status = "out_of_stock"
)

type Product struct {
	ID          string          `json:"id" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	Brand       string          `json:"brand" db:"brand"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Status      Status          `json:"status" db:"status"`
	Description string          `json:"description" db:"description"`
	Specs       string          `json:"specs" db:"specs"`
	ImageURL    string          `json:"imageUrl" db:"image_url"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
	Version     int             `json:"-" db:"version"`
}

type ProductNew struct {
	Name        string          `json:"name" validate:"required"`
	Brand       string          `json:"brand" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Status      Status          `json:"status" validate:"required,oneof=in_stock featured out_of_stock"`
	Description string          `json:"description" validate:"required"`
	Specs       string          `json:"specs"`
	ImageURL    string          `json:"imageUrl" validate:"required"`
}

type ProductUp struct {
	Name        *string          `json:"name"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	Status      *Status          `json:"status" validate:"omitempty,oneof=in_stock featured out_of_stock"`
	Description *string          `json:"description"`
	Specs       *string          `json:"specs"`
	ImageURL    *string          `json:"imageUrl"`
}

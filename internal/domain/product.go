package domain

import "time"

// ProductCategory restricts products to the shop's fixed category set.
type ProductCategory string

const (
	CategoryBouldering     ProductCategory = "Bouldering"
	CategorySportClimbing  ProductCategory = "Sport Climbing"
	CategoryTradClimbing   ProductCategory = "Trad Climbing"
	CategoryMountaineering ProductCategory = "Mountaineering"
	CategoryAccessories    ProductCategory = "Accessories"
)

// AllowedCategories lists every valid product category.
var AllowedCategories = []ProductCategory{
	CategoryBouldering,
	CategorySportClimbing,
	CategoryTradClimbing,
	CategoryMountaineering,
	CategoryAccessories,
}

// ValidCategory reports whether the value is one of the allowed categories.
func ValidCategory(value string) bool {
	for _, c := range AllowedCategories {
		if string(c) == value {
			return true
		}
	}
	return false
}

// Product is a catalog entry. Stock never goes negative after a decrement.
type Product struct {
	ID          string
	Name        string
	Category    ProductCategory
	Description string
	ImageURL    *string
	Price       float64
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

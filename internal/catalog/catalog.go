// Package catalog holds the products the store sells and the quantity rules
// that apply to them.
package catalog

import (
	"fmt"
	"math"

	"storefront-service/internal/entity"
)

var products = []entity.Product{
	{Name: "Discord Offline Members", Price: 0.12, MinQuantity: 300, MaxQuantity: 6000, DefaultStock: 6000},
	{Name: "Discord Online Members", Price: 0.2, MinQuantity: 200, MaxQuantity: 2000, DefaultStock: 2000},
	{Name: "YouTube Premium", Price: 20, MinQuantity: 1, MaxQuantity: 200, DefaultStock: 200},
	{Name: "Instagram Followers", Price: 0.28, MinQuantity: 100, MaxQuantity: 200000, DefaultStock: 200000},
	{Name: "Spotify Premium (3 Months)", Price: 45, MinQuantity: 1, MaxQuantity: 500, DefaultStock: 500},
	{Name: "Canva Premium 1 Year", Price: 49, MinQuantity: 1, MaxQuantity: 150, DefaultStock: 150, Badge: "Pre Order Only"},
}

// Products returns a copy of the catalog in display order.
func Products() []entity.Product {
	out := make([]entity.Product, len(products))
	copy(out, products)
	return out
}

// Names returns the product names in display order.
func Names() []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

// Lookup finds a product definition by name.
func Lookup(name string) (entity.Product, bool) {
	for _, p := range products {
		if p.Name == name {
			return p, true
		}
	}
	return entity.Product{}, false
}

// Round rounds a money value to 2 decimals.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// Total is quantity × unit price at currency precision.
func Total(p entity.Product, quantity int) float64 {
	return Round(float64(quantity) * p.Price)
}

// Upper is the largest quantity that can be ordered given the stock.
func Upper(p entity.Product, stock int) int {
	return min(p.MaxQuantity, stock)
}

// ValidateQuantity checks an order quantity against the product bounds and
// the current stock.
func ValidateQuantity(p entity.Product, stock, quantity int) error {
	if quantity < p.MinQuantity || quantity > p.MaxQuantity {
		return entity.NewValidationError(fmt.Sprintf("quantity for %s must be between %d and %d", p.Name, p.MinQuantity, p.MaxQuantity))
	}
	if quantity > stock {
		return fmt.Errorf("%s: %d requested, %d left: %w", p.Name, quantity, stock, entity.ErrInsufficientStock)
	}
	return nil
}

// Merge combines the definitions with stock rows. Products without a row
// are reported with zero stock.
func Merge(rows []entity.ProductStock) []entity.CatalogItem {
	stock := make(map[string]int, len(rows))
	for _, r := range rows {
		stock[r.Name] = r.Stock
	}
	out := make([]entity.CatalogItem, 0, len(products))
	for _, p := range products {
		out = append(out, entity.CatalogItem{Product: p, Stock: stock[p.Name]})
	}
	return out
}

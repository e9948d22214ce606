package entity

// Product is the static definition of something the store sells.
type Product struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	MinQuantity  int     `json:"min_quantity"`
	MaxQuantity  int     `json:"max_quantity"`
	DefaultStock int     `json:"-"`
	Badge        string  `json:"badge,omitempty"`
}

// ProductStock is a row of the products table.
type ProductStock struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// CatalogItem is a product definition merged with its live stock.
type CatalogItem struct {
	Product
	Stock int `json:"stock"`
}

/*
Schema MySQL for products table:
CREATE TABLE products (
	name VARCHAR(255) NOT NULL PRIMARY KEY,
	price DECIMAL(12,2) NOT NULL,
	stock INT NOT NULL,
	updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3)
);
*/

package entity

import "time"

type Order struct {
	ID          int64     `json:"id"`
	OrderID     string    `json:"order_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Total       float64   `json:"total"`
	Channel     Channel   `json:"channel"`
	CreatedAt   time.Time `json:"created_at"`
}

// Completion is what a committed order leaves behind.
type Completion struct {
	Order Order `json:"order"`
	Stock int   `json:"stock"`
	Stats Stats `json:"stats"`
}

/*
Mysql Table

CREATE TABLE orders (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	order_id VARCHAR(64) NOT NULL UNIQUE,
	product_name VARCHAR(255) NOT NULL,
	quantity INT NOT NULL,
	total DECIMAL(12,2) NOT NULL,
	channel VARCHAR(20) NOT NULL,
	created_at DATETIME(3) NOT NULL
);
*/

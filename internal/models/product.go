package models

// Product is a catalog item. Price is stored in the smallest currency unit.
// Stock is decremented when an order is placed and is not restored on
// cancellation unless the restock policy is enabled.
type Product struct {
	BaseModel
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

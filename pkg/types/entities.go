package types

// Product is the typed shape of a record in the products collection.
// The store and the sync queue carry products as Documents; Product exists
// for callers that want compile-time field access.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Stock       int     `json:"stock"`
	Barcode     string  `json:"barcode,omitempty"`
	Description string  `json:"description,omitempty"`
	Image       string  `json:"image,omitempty"`
	Synced      bool    `json:"synced"`
	CreatedAt   string  `json:"createdAt,omitempty"`
	UpdatedAt   string  `json:"updatedAt,omitempty"`
}

// Category is the typed shape of a record in the categories collection.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	IsActive    bool   `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
	Synced      bool   `json:"synced"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

// OrderItem is a single line on an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is the typed shape of a record in the orders collection.
type Order struct {
	ID        string      `json:"id"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Timestamp string      `json:"timestamp,omitempty"`
	Synced    bool        `json:"synced"`
}

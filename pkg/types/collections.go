package types

// Standard collection names for Store.Collection.
const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
	OrdersCollection     = "orders"
)

// StandardCollectionNames lists all standard collection names for enumeration.
var StandardCollectionNames = []string{
	ProductsCollection,
	CategoriesCollection,
	OrdersCollection,
}

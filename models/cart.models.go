package models

// CartItem is one line in a user's cart: the product snapshot taken at add
// time plus a quantity. The snapshot is intentional price-lock behavior;
// totals read the add-time price and are never refreshed from the catalog.
type CartItem struct {
	ProductID string  `json:"productId"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
}

package cart

// AddItemRequest payload for adding a menu item to the cart.
// swagger:model AddItemRequest
type AddItemRequest struct {
	MenuItemID string `json:"menu_item_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity   int    `json:"quantity"     example:"1"`
}

// SetQuantityRequest payload for changing a line item's quantity.
// Zero or negative removes the line.
// swagger:model SetQuantityRequest
type SetQuantityRequest struct {
	Quantity int `json:"quantity" example:"2"`
}

// SnapshotItem is one entry of a client-tracked cart submitted at checkout.
// swagger:model SnapshotItem
type SnapshotItem struct {
	Name     string `json:"name"     example:"Vegetable Biryani"`
	Quantity int    `json:"quantity" example:"1"`
	Price    string `json:"price"    example:"180.00"`
	Category string `json:"category" example:"veg"`
}

// CheckoutRequest payload for confirming the pending order.
// swagger:model CheckoutRequest
type CheckoutRequest struct {
	Snapshot            []SnapshotItem `json:"cart_snapshot,omitempty"`
	TableID             string         `json:"table_id,omitempty"`
	PaymentMethod       string         `json:"payment_method" example:"upi"`
	SpecialInstructions string         `json:"special_instructions,omitempty"`
}

// UpdateStatusRequest payload for the kitchen/admin status update.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"PREPARING"`
}

// CartResponse is an order plus its line items.
// swagger:model
type CartResponse struct {
	Order *Order `json:"order"`
	Items []Item `json:"items"`
}

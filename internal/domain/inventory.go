package domain

// ItemRef identifies the item an inventory record belongs to.
type ItemRef struct {
	ID   int64
	Name string
}

// InventoryRecord is one row of the stock ledger kept by the remote API.
type InventoryRecord struct {
	InventoryID int64
	Quantity    int
	Item        ItemRef
}

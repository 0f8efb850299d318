package models

import "time"

// Ingredient is one recipe line: how much of an inventory item a single
// portion consumes.
type Ingredient struct {
	InventoryItemID string  `bson:"inventory_item_id" json:"inventoryItemId"`
	Quantity        Decimal `bson:"quantity" json:"quantity"`
}

// MenuItem is a sellable dish or drink.
type MenuItem struct {
	ID          string       `bson:"_id" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Category    string       `bson:"category" json:"category"`
	Price       Decimal      `bson:"price" json:"price"`
	SoldCount   int          `bson:"sold_count" json:"soldCount"`
	Ingredients []Ingredient `bson:"ingredients" json:"ingredients"`
	CreatedAt   time.Time    `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `bson:"updated_at" json:"updatedAt"`
}

package models

import "time"

// StockStatus is derived from stock and minimum stock on every read.
type StockStatus string

const (
	StockEmpty StockStatus = "empty"
	StockLow   StockStatus = "low"
	StockOK    StockStatus = "ok"
)

// InventoryItem is a stocked ingredient or consumable.
type InventoryItem struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Unit          string    `bson:"unit" json:"unit"`
	Stock         Decimal   `bson:"stock" json:"stock"`
	MinStock      Decimal   `bson:"min_stock" json:"minStock"`
	PurchasePrice Decimal   `bson:"purchase_price" json:"purchasePrice"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// ChangeReason tells why stock moved.
type ChangeReason string

const (
	ReasonDelivery    ChangeReason = "delivery"
	ReasonConsumption ChangeReason = "consumption"
	ReasonSale        ChangeReason = "sale"
	ReasonAdjustment  ChangeReason = "adjustment"
)

// InventoryChange is an append-only audit entry for a stock mutation.
type InventoryChange struct {
	ID              string       `bson:"_id" json:"id"`
	InventoryItemID string       `bson:"inventory_item_id" json:"inventoryItemId"`
	Change          Decimal      `bson:"change" json:"change"`
	Reason          ChangeReason `bson:"reason" json:"reason"`
	Notes           string       `bson:"notes,omitempty" json:"notes,omitempty"`
	Timestamp       time.Time    `bson:"timestamp" json:"timestamp"`
}

// InventoryView is an item together with its derived status.
type InventoryView struct {
	InventoryItem
	Status StockStatus `json:"status"`
}

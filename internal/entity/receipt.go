package entity

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single purchased line item. Price is a normalized decimal
// string with no thousands separators (always "\d+\.\d{2}").
type Item struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ParsedReceipt is the engine's output: the structured record reconstructed
// from one OCR result. Date, Tax and Total are nil when the receipt did not
// yield them; Items may be empty but never contains a nameless or priceless
// entry.
type ParsedReceipt struct {
	StoreName string  `json:"storeName"`
	Date      *string `json:"date"`
	Items     []Item  `json:"items"`
	Tax       *string `json:"tax"`
	Total     *string `json:"total"`
}

// Receipt is a stored receipt: a parsed record plus the ownership and
// timestamp fields added at persistence time.
type Receipt struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"userId"`
	UploadedAt time.Time `json:"uploadedAt"`
	ParsedReceipt
}

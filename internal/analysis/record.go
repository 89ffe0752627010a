package analysis

import (
	"fmt"
	"time"
)

// DateFormat is the date layout used in the CSV input.
const DateFormat = "2006-01-02"

// Record is a single sales transaction.
type Record struct {
	TransactionID string    `json:"transaction_id"`
	Date          time.Time `json:"date"`
	Product       string    `json:"product_name"`
	Category      string    `json:"category"`
	Quantity      int       `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
	Region        string    `json:"region"`
	Salesperson   string    `json:"salesperson"`
}

// Total returns the transaction amount.
func (r Record) Total() float64 {
	return float64(r.Quantity) * r.UnitPrice
}

func (r Record) String() string {
	return fmt.Sprintf("Record(%s, %s, %s, $%.2f)",
		r.TransactionID, r.Date.Format(DateFormat), r.Product, r.Total())
}

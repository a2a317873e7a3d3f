package entity

import "time"

// Ticket ownership is append-only; numbers are sequential per event
// starting at zero. Only the sale engine mints.
type Ticket struct {
	EventID string `gorm:"primaryKey"`
	Number  int64  `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time

	Owner string `gorm:"index"`
	URI   string
}

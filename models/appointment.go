package models

import "time"

// Appointment statuses
const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
)

type Appointment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	// CustomerID carries no foreign-key constraint (migration runs with
	// constraints disabled): deleting a customer leaves its appointments
	// in place with a dangling reference.
	CustomerID uint      `gorm:"index;not null" json:"customerId"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Date       time.Time `gorm:"index;not null" json:"date"`
	StartTime  time.Time `gorm:"not null" json:"startTime"`
	EndTime    time.Time `gorm:"not null" json:"endTime"`
	Type       string    `gorm:"type:varchar(100);not null" json:"type"`
	Cost       *float64  `gorm:"type:decimal(10,2)" json:"cost"`
	Status     string    `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	Notes      *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

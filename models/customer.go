package models

import "time"

type Customer struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"userId"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Surname     string    `gorm:"type:varchar(255);not null" json:"surname"`
	Email       string    `gorm:"type:varchar(255);not null" json:"email"`
	PhoneNumber string    `gorm:"type:varchar(20)" json:"phoneNumber"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

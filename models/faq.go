// models/faq.go
package models

import "time"

type FAQ struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Question      string    `gorm:"not null;size:300" json:"question"`
	Answer        string    `gorm:"not null;type:text" json:"answer"`
	Category      string    `gorm:"size:100;index" json:"category,omitempty"`
	Keywords      string    `gorm:"type:text" json:"keywords,omitempty"`
	AttachmentURL string    `gorm:"size:255" json:"attachment_url,omitempty"`
	Views         int       `gorm:"default:0" json:"views"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (FAQ) TableName() string {
	return "faqs"
}

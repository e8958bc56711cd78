package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Client is a pet owner registered with the clinic.
type Client struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name          string            `gorm:"not null" json:"name"`
	Address       string            `gorm:"type:text" json:"address,omitempty"`
	Contact       string            `gorm:"type:text" json:"contact,omitempty"`
	Email         string            `gorm:"type:text" json:"email,omitempty"`
	ControlNumber string            `gorm:"column:control_number;uniqueIndex;not null" json:"control_number"`
	ControlSeq    int64             `gorm:"column:control_seq;not null;default:0" json:"control_seq"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

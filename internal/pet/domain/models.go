package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Pet belongs to exactly one client.
type Pet struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	ClientID  snowflake.ID      `gorm:"column:client_id;not null;index" json:"client_id"`
	Name      string            `gorm:"not null" json:"name"`
	Species   string            `gorm:"type:text" json:"species,omitempty"`
	Breed     string            `gorm:"type:text" json:"breed,omitempty"`
	Sex       string            `gorm:"type:text" json:"sex,omitempty"`
	BirthDate *time.Time        `gorm:"column:birth_date" json:"birth_date,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Pet) TableName() string { return "pets" }

package domain

import "time" // Time for timestamps

// Model carries the columns shared by every table
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"` // Primary key
	CreatedAt time.Time `json:"created_at"`           // Set by GORM on insert
	UpdatedAt time.Time `json:"updated_at"`           // Set by GORM on every save
}

// Entity is implemented by every model embedding Model
type Entity interface {
	PrimaryKey() uint
	ResetModel()
}

// PrimaryKey returns the row ID
func (m Model) PrimaryKey() uint { return m.ID }

// ResetModel clears the ID and timestamps so client input cannot set them
func (m *Model) ResetModel() {
	m.ID = 0
	m.CreatedAt = time.Time{}
	m.UpdatedAt = time.Time{}
}

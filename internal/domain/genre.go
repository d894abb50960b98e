package domain

// Genre Model
type Genre struct {
	Model
	Name string `gorm:"size:255;not null" json:"name" binding:"required"` // Display name
}

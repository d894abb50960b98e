package domain

// Profile Model
type Profile struct {
	Model
	UserID       uint   `gorm:"uniqueIndex;not null" json:"user_id"`              // Owning user
	Address      string `gorm:"size:255" json:"address"`                          // Postal address
	CoverImage   string `gorm:"size:255" json:"cover_image"`                      // Media path
	MobileNumber string `gorm:"size:20;not null;default:''" json:"mobile_number"` // Contact number
}

package domain

import "github.com/shopspring/decimal" // Fixed-point money

// Book Model
type Book struct {
	Model
	ISBN            string `gorm:"column:isbn;size:20;uniqueIndex;not null" json:"isbn"`
	Title           string `gorm:"size:100;not null" json:"title"`
	Authors         string `gorm:"size:255;not null" json:"authors"`
	Publisher       string `gorm:"size:100" json:"publisher"`
	PublicationDate Date   `json:"publication_date"`
	Description     string `gorm:"type:text" json:"description"`
	Language        string `gorm:"size:50" json:"language"`
	NumPages        int    `json:"num_pages"`
	CoverImage      string `gorm:"size:255" json:"cover_image"`
	GenreID         *uint  `gorm:"index" json:"genre_id"`
	Genre           *Genre `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
}

// BookCopy Model, one physical item of a Book
type BookCopy struct {
	Model
	BookID       uint                `gorm:"index;not null" json:"book_id" binding:"required"`
	BookType     string              `gorm:"size:50;not null" json:"book_type" binding:"required"` // hardcover, paperback, ...
	Edition      string              `gorm:"size:50" json:"edition"`
	Condition    string              `gorm:"size:50" json:"condition"`
	Price        decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	Availability bool                `gorm:"not null;default:true" json:"availability"`
	Book         *Book               `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// TableName keeps the copy table name readable
func (BookCopy) TableName() string { return "book_copies" }

// BookRequest Model, a patron asking for a title the library lacks
type BookRequest struct {
	Model
	UserID             uint   `gorm:"index" json:"user_id"`
	RequestedTitle     string `gorm:"size:100;not null" json:"requested_title" binding:"required"`
	RequestedAuthors   string `gorm:"size:255;not null" json:"requested_authors" binding:"required"`
	RequestedPublisher string `gorm:"size:100" json:"requested_publisher"`
	Description        string `gorm:"type:text" json:"description"`
	User               *User  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// Review Model
type Review struct {
	Model
	UserID     uint   `gorm:"index" json:"user_id"`
	BookID     uint   `gorm:"index;not null" json:"book_id" binding:"required"`
	ReviewText string `gorm:"size:255;not null" json:"review_text" binding:"required"`
	User       *User  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Book       *Book  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

// Bookmark Model
type Bookmark struct {
	Model
	UserID uint  `gorm:"index" json:"user_id"`
	BookID uint  `gorm:"index;not null" json:"book_id" binding:"required"`
	User   *User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Book   *Book `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}

package domain

import "github.com/shopspring/decimal" // Fixed-point money

// Reservation status values
const (
	StatusReserved = "reserved"
	StatusBorrowed = "borrowed"
	StatusReturned = "returned"
)

// Reservation Model
type Reservation struct {
	Model
	UserID       uint                `gorm:"index" json:"user_id"`
	BookCopyID   uint                `gorm:"column:bookcopy_id;index;not null" json:"bookcopy_id" binding:"required"`
	ReservedDate Date                `json:"reserved_date"`
	ReturnDate   Date                `json:"return_date"`
	ReturnedDate Date                `json:"returned_date"`
	Status       string              `gorm:"size:50;not null" json:"status"` // reserved, borrowed, returned
	Fine         decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"fine"`
	Remarks      string              `gorm:"type:text" json:"remarks"`
	User         *User               `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	BookCopy     *BookCopy           `gorm:"foreignKey:BookCopyID;constraint:OnDelete:CASCADE;" json:"-"`
}

// HoldsCopy reports whether the reservation keeps its copy out of circulation
func (r *Reservation) HoldsCopy() bool {
	return r.Status == StatusReserved || r.Status == StatusBorrowed
}

// Transaction Model, a payment against a reservation
type Transaction struct {
	Model
	UserID          uint            `gorm:"index" json:"user_id"`
	ReservationID   *uint           `gorm:"index" json:"reservation_id"`
	TransactionDate Date            `json:"transaction_date"`
	Amount          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod   string          `gorm:"size:50;not null" json:"payment_method" binding:"required"`
	Remarks         string          `gorm:"type:text" json:"remarks"`
	User            *User           `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Reservation     *Reservation    `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
}

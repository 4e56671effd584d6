package model

import "time"

// RaffleStatus is a closed enumeration of the raffle lifecycle. The values
// match the public API wire format (pt-BR labels).
type RaffleStatus string

const (
	Online    RaffleStatus = "Online"
	Sorting   RaffleStatus = "Sortear"
	Concluded RaffleStatus = "Concluido"
	Cancelled RaffleStatus = "Cancelado"
	Expired   RaffleStatus = "Expirado"
)

// Terminal reports whether no further transition may leave this status.
func (s RaffleStatus) Terminal() bool {
	switch s {
	case Concluded, Cancelled, Expired:
		return true
	}
	return false
}

func (s RaffleStatus) Valid() bool {
	switch s {
	case Online, Sorting, Concluded, Cancelled, Expired:
		return true
	}
	return false
}

// PaymentStatus tracks a participation's payment, updated asynchronously by
// the payment webhook.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
)

// DrawType values accepted on raffle creation.
const (
	DrawAutomatic = "automatico"
	DrawManual    = "manual"
)

// AllowedTotalNumbers is the closed set of pool sizes a raffle may be
// created with.
var AllowedTotalNumbers = []int{25, 50, 100, 200, 500, 1000}

func ValidTotalNumbers(n int) bool {
	for _, allowed := range AllowedTotalNumbers {
		if n == allowed {
			return true
		}
	}
	return false
}

type User struct {
	Id         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Email      string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password   string    `gorm:"not null" json:"-"`
	Cpf        string    `json:"cpf"`
	Phone      string    `json:"phone"`
	TotpSecret string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Raffle struct {
	Id           string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Slug         string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"uniqueLink"`
	Name         string       `gorm:"not null" json:"name"`
	Description  string       `json:"description"`
	PrizeImage   string       `json:"prizeImage"`
	SupportPhone string       `json:"supportPhone"`
	DrawDate     time.Time    `gorm:"not null" json:"drawDate"`
	TicketPrice  int64        `gorm:"not null" json:"ticketPrice"` // centavos
	TotalNumbers int          `gorm:"not null" json:"totalNumbers"`
	DrawType     string       `gorm:"type:varchar(20)" json:"drawType"`
	Status       RaffleStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Closed       bool         `gorm:"not null" json:"closed"`
	CreatorId    string       `gorm:"type:varchar(36);not null;index" json:"creatorId"`

	// Winner snapshot, set exactly once when the raffle is concluded.
	WinningNumber *int   `json:"winningNumber,omitempty"`
	WinnerName    string `json:"winnerName,omitempty"`
	WinnerEmail   string `json:"winnerEmail,omitempty"`
	WinnerPhone   string `json:"winnerPhone,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Participation is one sold number within a raffle. The composite unique
// index on (raffle_id, number) is what arbitrates concurrent purchases; the
// application never relies on a check-then-act read for correctness.
type Participation struct {
	Id            string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RaffleId      string        `gorm:"type:varchar(36);not null;uniqueIndex:idx_raffle_number" json:"raffleId"`
	Number        int           `gorm:"not null;uniqueIndex:idx_raffle_number" json:"number"`
	BuyerName     string        `gorm:"not null" json:"buyerName"`
	BuyerEmail    string        `gorm:"not null" json:"buyerEmail"`
	BuyerPhone    string        `gorm:"not null" json:"buyerPhone"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null" json:"paymentStatus"`
	PaymentId     string        `gorm:"type:varchar(64);index" json:"paymentId,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

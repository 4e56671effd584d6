package service

import (
	"sort"
	"time"

	"rifamania/database"
	"rifamania/database/model"
	"rifamania/logger"
	"rifamania/util/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TicketBuyer is the buyer info attached to every number of a purchase.
type TicketBuyer struct {
	Name  string `json:"name" binding:"required,min=3"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required"`
}

type TicketService struct {
	raffleService RaffleService
}

func validateNumbers(numbers []int) error {
	if len(numbers) == 0 {
		return &common.ValidationError{Msg: "Você deve escolher ao menos um número."}
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if n < 1 {
			return &common.ValidationError{Msg: "Número inválido."}
		}
		if seen[n] {
			return &common.ValidationError{Msg: "Números repetidos no pedido."}
		}
		seen[n] = true
	}
	return nil
}

// Purchase reserves the requested numbers for the buyer. The status check,
// collision scan and inserts run in one transaction; the composite unique
// index on (raffle_id, number) closes the remaining race window, so of two
// concurrent purchases for the same number exactly one commits.
func (s *TicketService) Purchase(raffleId string, buyer TicketBuyer, numbers []int) ([]*model.Participation, *model.Raffle, error) {
	if err := validateNumbers(numbers); err != nil {
		return nil, nil, err
	}

	db := database.GetDB()
	raffle := &model.Raffle{}
	var tickets []*model.Participation
	var poolExhausted bool

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", raffleId).First(raffle).Error
		if err != nil {
			if database.IsNotFound(err) {
				return &common.NotFoundError{Msg: "Rifa não encontrada."}
			}
			return err
		}
		if raffle.Status != model.Online {
			return &common.InvalidStateError{Msg: "A rifa não está disponível para compra."}
		}
		for _, n := range numbers {
			if n > raffle.TotalNumbers {
				return &common.ValidationError{Msg: "Número inválido."}
			}
		}

		sold, err := s.raffleService.soldNumbers(tx, raffleId)
		if err != nil {
			return err
		}
		var conflicts []int
		for _, n := range numbers {
			if sold[n] {
				conflicts = append(conflicts, n)
			}
		}
		if len(conflicts) > 0 {
			sort.Ints(conflicts)
			return &common.ConflictError{Numbers: conflicts}
		}

		now := time.Now()
		tickets = make([]*model.Participation, 0, len(numbers))
		for _, n := range numbers {
			tickets = append(tickets, &model.Participation{
				Id:            uuid.NewString(),
				RaffleId:      raffleId,
				Number:        n,
				BuyerName:     buyer.Name,
				BuyerEmail:    buyer.Email,
				BuyerPhone:    buyer.Phone,
				PaymentStatus: model.PaymentPending,
				CreatedAt:     now,
			})
		}
		if err := tx.Create(&tickets).Error; err != nil {
			return err
		}

		poolExhausted = len(sold)+len(numbers) >= raffle.TotalNumbers
		return nil
	})
	if err != nil {
		if database.IsDuplicate(err) {
			// A concurrent purchase won the index race after our scan.
			// Re-read so the caller learns which numbers are gone.
			return nil, nil, s.conflictFor(raffleId, numbers)
		}
		return nil, nil, err
	}

	if poolExhausted {
		changed, err := s.raffleService.markSorting(db, raffleId)
		if err != nil {
			logger.Warning("failed to close sold-out raffle:", err)
		} else if changed {
			logger.Infof("raffle %s sold out, moved to %s", raffleId, model.Sorting)
			raffle.Status = model.Sorting
			raffle.Closed = true
		}
	}
	return tickets, raffle, nil
}

func (s *TicketService) conflictFor(raffleId string, numbers []int) error {
	sold, err := s.raffleService.soldNumbers(database.GetDB(), raffleId)
	if err != nil {
		return err
	}
	var conflicts []int
	for _, n := range numbers {
		if sold[n] {
			conflicts = append(conflicts, n)
		}
	}
	if len(conflicts) == 0 {
		// The winning transaction is not visible yet; report the whole request.
		conflicts = numbers
	}
	sort.Ints(conflicts)
	return &common.ConflictError{Numbers: conflicts}
}

// ListByRaffle returns all sold tickets of a raffle to its owner.
func (s *TicketService) ListByRaffle(callerId, raffleId string) ([]*model.Participation, error) {
	raffle, err := s.raffleService.GetRaffle(raffleId)
	if err != nil {
		return nil, err
	}
	if raffle.CreatorId != callerId {
		return nil, &common.ForbiddenError{Msg: "Você não tem permissão para ver os bilhetes dessa rifa."}
	}
	db := database.GetDB()
	var tickets []*model.Participation
	err = db.Where("raffle_id = ?", raffleId).Order("number asc").Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// AttachPayment links freshly created tickets to the payment intent raised
// for them, so the webhook can flip their status later.
func (s *TicketService) AttachPayment(ticketIds []string, paymentId string) error {
	if len(ticketIds) == 0 {
		return nil
	}
	db := database.GetDB()
	return db.Model(&model.Participation{}).
		Where("id IN ?", ticketIds).
		Update("payment_id", paymentId).Error
}

// ConfirmPayment is invoked by the payment webhook. Tickets are never
// deleted on failure; only the payment status moves forward.
func (s *TicketService) ConfirmPayment(paymentId string) (int64, error) {
	if paymentId == "" {
		return 0, &common.ValidationError{Msg: "Identificador de pagamento inválido."}
	}
	db := database.GetDB()
	result := db.Model(&model.Participation{}).
		Where("payment_id = ? AND payment_status = ?", paymentId, model.PaymentPending).
		Update("payment_status", model.PaymentConfirmed)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

package service

import (
	"fmt"
	"time"

	"rifamania/database"
	"rifamania/database/model"
	"rifamania/logger"
	"rifamania/util/common"
	"rifamania/web/global"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// RaffleForm carries the fields a creator may set. Used for both create and
// update.
type RaffleForm struct {
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	PrizeImage   string    `json:"prizeImage"`
	SupportPhone string    `json:"supportPhone"`
	DrawDate     time.Time `json:"drawDate" binding:"required"`
	TicketPrice  int64     `json:"ticketPrice" binding:"required"`
	TotalNumbers int       `json:"totalNumbers" binding:"required"`
	DrawType     string    `json:"drawType"`
}

// RaffleDetails is the public view of a raffle plus the computed pool state.
type RaffleDetails struct {
	*model.Raffle
	SoldTicketsCount int   `json:"soldTicketsCount"`
	AvailableCount   int   `json:"availableNumbersCount"`
	AvailableNumbers []int `json:"availableNumbers"`
}

// DrawResult is the winner snapshot produced by a draw.
type DrawResult struct {
	WinningNumber int    `json:"winningNumber"`
	BuyerName     string `json:"buyerName"`
	BuyerEmail    string `json:"buyerEmail"`
	BuyerPhone    string `json:"buyerPhone"`
}

type RaffleService struct{}

// AvailableNumbers returns the ordered sequence 1..totalNumbers with the sold
// numbers removed. Pure; both the display path and the purchase validation
// use it.
func AvailableNumbers(totalNumbers int, sold map[int]bool) []int {
	capacity := totalNumbers - len(sold)
	if capacity < 0 {
		capacity = 0
	}
	available := make([]int, 0, capacity)
	for n := 1; n <= totalNumbers; n++ {
		if !sold[n] {
			available = append(available, n)
		}
	}
	return available
}

// NeedsTransition decides, without touching the store, whether a raffle must
// leave its current status. Only Online raffles ever move: to Sorting once
// the draw date passed or the pool sold out.
func (s *RaffleService) NeedsTransition(raffle *model.Raffle, soldCount int, now time.Time) (model.RaffleStatus, bool) {
	if raffle.Status != model.Online {
		return "", false
	}
	if !now.Before(raffle.DrawDate) || soldCount >= raffle.TotalNumbers {
		return model.Sorting, true
	}
	return "", false
}

func (s *RaffleService) validateForm(form *RaffleForm, now time.Time) error {
	if form.Name == "" {
		return &common.ValidationError{Msg: "O nome da rifa é obrigatório."}
	}
	if form.TicketPrice <= 0 {
		return &common.ValidationError{Msg: "O preço do bilhete deve ser um número positivo."}
	}
	if !model.ValidTotalNumbers(form.TotalNumbers) {
		return &common.ValidationError{Msg: fmt.Sprintf("O número total de bilhetes deve ser um de %v.", model.AllowedTotalNumbers)}
	}
	if form.DrawDate.Before(now) {
		return &common.ValidationError{Msg: "A data do sorteio deve ser futura."}
	}
	switch form.DrawType {
	case "", model.DrawAutomatic, model.DrawManual:
	default:
		return &common.ValidationError{Msg: "O tipo de sorteio é inválido."}
	}
	return nil
}

// uniqueSlug derives a URL-safe slug from the name, resolving collisions with
// a numeric suffix.
func (s *RaffleService) uniqueSlug(tx *gorm.DB, name string) (string, error) {
	base := slug.Make(name)
	candidate := base
	for counter := 1; ; counter++ {
		var count int64
		err := tx.Model(&model.Raffle{}).Where("slug = ?", candidate).Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, counter)
	}
}

func (s *RaffleService) CreateRaffle(creatorId string, form *RaffleForm) (*model.Raffle, error) {
	if err := s.validateForm(form, time.Now()); err != nil {
		return nil, err
	}

	drawType := form.DrawType
	if drawType == "" {
		drawType = model.DrawAutomatic
	}
	raffle := &model.Raffle{
		Id:           uuid.NewString(),
		Name:         form.Name,
		Description:  form.Description,
		PrizeImage:   form.PrizeImage,
		SupportPhone: form.SupportPhone,
		DrawDate:     form.DrawDate,
		TicketPrice:  form.TicketPrice,
		TotalNumbers: form.TotalNumbers,
		DrawType:     drawType,
		Status:       model.Online,
		Closed:       false,
		CreatorId:    creatorId,
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		uniqueLink, err := s.uniqueSlug(tx, form.Name)
		if err != nil {
			return err
		}
		raffle.Slug = uniqueLink
		return tx.Create(raffle).Error
	})
	if err != nil {
		return nil, err
	}
	return raffle, nil
}

func (s *RaffleService) soldNumbers(tx *gorm.DB, raffleId string) (map[int]bool, error) {
	var numbers []int
	err := tx.Model(&model.Participation{}).Where("raffle_id = ?", raffleId).Pluck("number", &numbers).Error
	if err != nil {
		return nil, err
	}
	sold := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		sold[n] = true
	}
	return sold, nil
}

// GetBySlug resolves a raffle by its public handle, with the computed pool
// state the buy page renders.
func (s *RaffleService) GetBySlug(slugStr string) (*RaffleDetails, error) {
	db := database.GetDB()
	raffle := &model.Raffle{}
	err := db.Where("slug = ?", slugStr).First(raffle).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, &common.NotFoundError{Msg: "Rifa não encontrada."}
		}
		return nil, err
	}
	sold, err := s.soldNumbers(db, raffle.Id)
	if err != nil {
		return nil, err
	}
	available := AvailableNumbers(raffle.TotalNumbers, sold)
	return &RaffleDetails{
		Raffle:           raffle,
		SoldTicketsCount: len(sold),
		AvailableCount:   len(available),
		AvailableNumbers: available,
	}, nil
}

func (s *RaffleService) GetRaffle(raffleId string) (*model.Raffle, error) {
	db := database.GetDB()
	raffle := &model.Raffle{}
	err := db.Where("id = ?", raffleId).First(raffle).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, &common.NotFoundError{Msg: "Rifa não encontrada."}
		}
		return nil, err
	}
	return raffle, nil
}

// ListByCreator returns the caller's raffles, newest first, each with its
// sold/available counts.
func (s *RaffleService) ListByCreator(creatorId string) ([]*RaffleDetails, error) {
	db := database.GetDB()
	var raffles []*model.Raffle
	err := db.Where("creator_id = ?", creatorId).Order("created_at desc").Find(&raffles).Error
	if err != nil {
		return nil, err
	}
	details := make([]*RaffleDetails, 0, len(raffles))
	for _, raffle := range raffles {
		var soldCount int64
		err = db.Model(&model.Participation{}).Where("raffle_id = ?", raffle.Id).Count(&soldCount).Error
		if err != nil {
			return nil, err
		}
		details = append(details, &RaffleDetails{
			Raffle:           raffle,
			SoldTicketsCount: int(soldCount),
			AvailableCount:   raffle.TotalNumbers - int(soldCount),
		})
	}
	return details, nil
}

// UpdateRaffle edits a raffle. Only the owner may edit, and only while the
// raffle is Online and not closed. A renamed raffle gets a fresh slug.
func (s *RaffleService) UpdateRaffle(callerId, raffleId string, form *RaffleForm) (*model.Raffle, error) {
	if err := s.validateForm(form, time.Now()); err != nil {
		return nil, err
	}

	db := database.GetDB()
	raffle := &model.Raffle{}
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ?", raffleId).First(raffle).Error
		if err != nil {
			if database.IsNotFound(err) {
				return &common.NotFoundError{Msg: "Rifa não encontrada."}
			}
			return err
		}
		if raffle.CreatorId != callerId {
			return &common.ForbiddenError{Msg: "Você não tem permissão para editar essa rifa."}
		}
		if raffle.Status != model.Online || raffle.Closed {
			return &common.InvalidStateError{Msg: "Essa rifa não pode mais ser editada."}
		}

		// the pool may never shrink below what is already sold
		var soldCount int64
		err = tx.Model(&model.Participation{}).Where("raffle_id = ?", raffleId).Count(&soldCount).Error
		if err != nil {
			return err
		}
		if int64(form.TotalNumbers) < soldCount {
			return &common.ValidationError{Msg: fmt.Sprintf("O número total de bilhetes não pode ser menor que os %d já vendidos.", soldCount)}
		}

		if form.Name != raffle.Name {
			uniqueLink, err := s.uniqueSlug(tx, form.Name)
			if err != nil {
				return err
			}
			raffle.Slug = uniqueLink
		}
		raffle.Name = form.Name
		raffle.Description = form.Description
		raffle.PrizeImage = form.PrizeImage
		raffle.SupportPhone = form.SupportPhone
		raffle.DrawDate = form.DrawDate
		raffle.TicketPrice = form.TicketPrice
		raffle.TotalNumbers = form.TotalNumbers
		if form.DrawType != "" {
			raffle.DrawType = form.DrawType
		}
		return tx.Save(raffle).Error
	})
	if err != nil {
		return nil, err
	}
	return raffle, nil
}

// markSorting performs the Online -> Sorting transition as a conditional
// update, so a raffle that already moved (or concluded) is left untouched.
func (s *RaffleService) markSorting(tx *gorm.DB, raffleId string) (bool, error) {
	result := tx.Model(&model.Raffle{}).
		Where("id = ? AND status = ?", raffleId, model.Online).
		Updates(map[string]any{"status": model.Sorting, "closed": true})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SweepStatuses advances every Online raffle whose draw date passed or whose
// pool sold out. Idempotent: the conditional updates only ever touch Online
// raffles. Returns the raffles that moved.
func (s *RaffleService) SweepStatuses(now time.Time) ([]*model.Raffle, error) {
	db := database.GetDB()

	var candidates []*model.Raffle
	err := db.Where("status = ?", model.Online).Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	var moved []*model.Raffle
	for _, raffle := range candidates {
		var soldCount int64
		err = db.Model(&model.Participation{}).Where("raffle_id = ?", raffle.Id).Count(&soldCount).Error
		if err != nil {
			return moved, err
		}
		if _, needed := s.NeedsTransition(raffle, int(soldCount), now); !needed {
			continue
		}
		changed, err := s.markSorting(db, raffle.Id)
		if err != nil {
			return moved, err
		}
		if changed {
			raffle.Status = model.Sorting
			raffle.Closed = true
			moved = append(moved, raffle)
		}
	}
	return moved, nil
}

// Draw selects one winner uniformly at random among the sold tickets of a
// Sorting raffle and concludes it. The status update is a compare-and-swap:
// of two racing draws exactly one wins, the other observes InvalidState.
func (s *RaffleService) Draw(callerId, raffleId string) (*DrawResult, error) {
	db := database.GetDB()
	result := &DrawResult{}
	var raffleName string
	err := db.Transaction(func(tx *gorm.DB) error {
		raffle := &model.Raffle{}
		err := tx.Where("id = ?", raffleId).First(raffle).Error
		if err != nil {
			if database.IsNotFound(err) {
				return &common.NotFoundError{Msg: "Rifa não encontrada."}
			}
			return err
		}
		if raffle.CreatorId != callerId {
			return &common.ForbiddenError{Msg: "Você não tem permissão para sortear essa rifa."}
		}
		if raffle.Status != model.Sorting {
			return &common.InvalidStateError{Msg: "A rifa não está pronta para sorteio."}
		}

		var tickets []*model.Participation
		err = tx.Where("raffle_id = ?", raffleId).Order("number asc").Find(&tickets).Error
		if err != nil {
			return err
		}
		if len(tickets) == 0 {
			return &common.EmptyPoolError{Msg: "Não há bilhetes vendidos para sorteio."}
		}

		winner := tickets[common.RandomInt(len(tickets))]

		res := tx.Model(&model.Raffle{}).
			Where("id = ? AND status = ?", raffleId, model.Sorting).
			Updates(map[string]any{
				"status":         model.Concluded,
				"closed":         true,
				"winning_number": winner.Number,
				"winner_name":    winner.BuyerName,
				"winner_email":   winner.BuyerEmail,
				"winner_phone":   winner.BuyerPhone,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race to a concurrent draw
			return &common.InvalidStateError{Msg: "A rifa não está pronta para sorteio."}
		}

		result.WinningNumber = winner.Number
		result.BuyerName = winner.BuyerName
		result.BuyerEmail = winner.BuyerEmail
		result.BuyerPhone = winner.BuyerPhone
		raffleName = raffle.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyWinner(raffleName, result)
	return result, nil
}

func (s *RaffleService) notifyWinner(raffleName string, result *DrawResult) {
	if global.TgBot == nil || !global.TgBot.IsRunning() {
		return
	}
	msg := fmt.Sprintf("🎉 Rifa \"%s\" sorteada!\nNúmero vencedor: %d\nGanhador: %s (%s)",
		raffleName, result.WinningNumber, result.BuyerName, result.BuyerEmail)
	if err := global.TgBot.SendMessage(msg); err != nil {
		logger.Warning("failed to notify draw result:", err)
	}
}

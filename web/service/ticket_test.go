package service

import (
	"sync"
	"testing"

	"rifamania/database"
	"rifamania/database/model"
	"rifamania/util/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseCreatesTickets(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "maria@example.com")
	raffle := createTestRaffle(t, owner.Id, 25)

	var s TicketService
	tickets, updated, err := s.Purchase(raffle.Id, testBuyer(), []int{3, 7})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, model.Online, updated.Status)
	for _, ticket := range tickets {
		assert.Equal(t, model.PaymentPending, ticket.PaymentStatus)
		assert.Equal(t, "João Souza", ticket.BuyerName)
	}

	var raffles RaffleService
	details, err := raffles.GetBySlug(raffle.Slug)
	require.NoError(t, err)
	assert.Equal(t, 2, details.SoldTicketsCount)
	assert.Equal(t, 23, details.AvailableCount)
	assert.NotContains(t, details.AvailableNumbers, 3)
	assert.NotContains(t, details.AvailableNumbers, 7)

	// conservation: available + sold == total
	assert.Equal(t, raffle.TotalNumbers, details.AvailableCount+details.SoldTicketsCount)
}

func TestPurchaseConflictNamesNumbers(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "maria@example.com")
	raffle := createTestRaffle(t, owner.Id, 25)

	var s TicketService
	_, _, err := s.Purchase(raffle.Id, testBuyer(), []int{3})
	require.NoError(t, err)

	_, _, err = s.Purchase(raffle.Id, testBuyer(), []int{3, 8})
	var conflict *common.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []int{3}, conflict.Numbers)
	assert.Contains(t, conflict.Error(), "3")

	// all-or-nothing: the free number of the failed batch was not reserved
	var raffles RaffleService
	details, err := raffles.GetBySlug(raffle.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, details.SoldTicketsCount)
	assert.Contains(t, details.AvailableNumbers, 8)
}

func TestPurchaseValidation(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "maria@example.com")
	raffle := createTestRaffle(t, owner.Id, 25)

	var s TicketService
	var validation *common.ValidationError

	_, _, err := s.Purchase(raffle.Id, testBuyer(), nil)
	require.ErrorAs(t, err, &validation)

	_, _, err = s.Purchase(raffle.Id, testBuyer(), []int{0})
	require.ErrorAs(t, err, &validation)

	_, _, err = s.Purchase(raffle.Id, testBuyer(), []int{5, 5})
	require.ErrorAs(t, err, &validation)

	_, _, err = s.Purchase(raffle.Id, testBuyer(), []int{26})
	require.ErrorAs(t, err, &validation)
}

func TestPurchaseUnknownRaffle(t *testing.T) {
	setupTestDB(t)

	var s TicketService
	var notFound *common.NotFoundError
	_, _, err := s.Purchase("missing-id", testBuyer(), []int{1})
	require.ErrorAs(t, err, &notFound)
}

func TestPurchaseRequiresOnlineRaffle(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "maria@example.com")
	raffle := createTestRaffle(t, owner.Id, 25)

	var raffles RaffleService
	_, err := raffles.markSorting(database.GetDB(), raffle.Id)
	require.NoError(t, err)

	var s TicketService
	var invalidState *common.InvalidStateError
	_, _, err = s.Purchase(raffle.Id, testBuyer(), []int{1})
	require.ErrorAs(t, err, &invalidState)
}

func TestPurchaseSellsOutMovesToSorting(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "maria@example.com")
	raffle := createTestRaffle(t, owner.Id, 25)

	numbers := make([]int, 0, 25)
	for n := 1; n <= 25; n++ {
		numbers = append(numbers, n)
	}

	var s TicketService
	tickets, updated, err := s.Purchase(raffle.Id, testBuyer(), numbers)
	require.NoError(t, err)
	require.Len(t, tickets, 25)
	assert.Equal(t, model.Sorting, updated.Status)
	assert.True(t, updated.Closed)

	var raffles RaffleService
	stored, err := raffles.GetRaffle(raffle.Id)
	require.NoError(t, err)
	assert.Equal(t, model.Sorting, stored.Status)
	assert.True(t, stored.Closed)
}

func TestConcurrentPurchaseSingleWinner(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "maria@example.com")
	raffle := createTestRaffle(t, owner.Id, 25)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	var s TicketService
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = s.Purchase(raffle.Id, testBuyer(), []int{5})
		}(i)
	}
	wg.Wait()

	successes := 0
	conflicts := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var conflict *common.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Contains(t, conflict.Numbers, 5)
		conflicts++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	// exactly one participation row exists for the contested number
	var count int64
	err := database.GetDB().Model(&model.Participation{}).
		Where("raffle_id = ? AND number = ?", raffle.Id, 5).Count(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListByRaffleRequiresOwner(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "maria@example.com")
	other := createTestUser(t, "pedro@example.com")
	raffle := createTestRaffle(t, owner.Id, 25)

	var s TicketService
	_, _, err := s.Purchase(raffle.Id, testBuyer(), []int{2, 9})
	require.NoError(t, err)

	tickets, err := s.ListByRaffle(owner.Id, raffle.Id)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, 2, tickets[0].Number)
	assert.Equal(t, 9, tickets[1].Number)

	var forbidden *common.ForbiddenError
	_, err = s.ListByRaffle(other.Id, raffle.Id)
	require.ErrorAs(t, err, &forbidden)
}

func TestConfirmPayment(t *testing.T) {
	setupTestDB(t)
	owner := createTestUser(t, "maria@example.com")
	raffle := createTestRaffle(t, owner.Id, 25)

	var s TicketService
	tickets, _, err := s.Purchase(raffle.Id, testBuyer(), []int{1, 2})
	require.NoError(t, err)

	ids := []string{tickets[0].Id, tickets[1].Id}
	require.NoError(t, s.AttachPayment(ids, "pay-123"))

	updated, err := s.ConfirmPayment("pay-123")
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	stored, err := s.ListByRaffle(owner.Id, raffle.Id)
	require.NoError(t, err)
	for _, ticket := range stored {
		assert.Equal(t, model.PaymentConfirmed, ticket.PaymentStatus)
	}

	// webhook retries are harmless
	updated, err = s.ConfirmPayment("pay-123")
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated)
}

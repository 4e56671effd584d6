package service

import (
	"path/filepath"
	"testing"
	"time"

	"rifamania/database"
	"rifamania/database/model"

	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
}

func createTestUser(t *testing.T, email string) *model.User {
	t.Helper()
	var s UserService
	user, err := s.CreateUser(&RegisterForm{
		Name:     "Maria Silva",
		Email:    email,
		Password: "senha-secreta",
		Phone:    "11999990000",
	})
	require.NoError(t, err)
	return user
}

func createTestRaffle(t *testing.T, ownerId string, totalNumbers int) *model.Raffle {
	t.Helper()
	var s RaffleService
	raffle, err := s.CreateRaffle(ownerId, &RaffleForm{
		Name:         "Rifa do Notebook",
		DrawDate:     time.Now().Add(24 * time.Hour),
		TicketPrice:  350,
		TotalNumbers: totalNumbers,
	})
	require.NoError(t, err)
	return raffle
}

func testBuyer() TicketBuyer {
	return TicketBuyer{
		Name:  "João Souza",
		Email: "joao@example.com",
		Phone: "21988887777",
	}
}

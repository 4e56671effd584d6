package service

import (
	"testing"

	"rifamania/util/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePixIntentUsesMinorUnits(t *testing.T) {
	var s PaymentService

	// 3 tickets at R$ 3,50 each: 1050 centavos, no float in sight
	intent, err := s.CreatePixIntent(3*350, "joao@example.com", "Rifa: Rifa do Notebook")
	require.NoError(t, err)

	assert.Equal(t, int64(1050), intent.Amount)
	assert.Contains(t, intent.CopyPaste, "10.50")
	assert.NotEmpty(t, intent.Id)
	assert.NotEmpty(t, intent.QrCodeBase64)
	assert.True(t, len(intent.IdempotencyKey) > len("payment_pix_"))
}

func TestCreatePixIntentRejectsBadInput(t *testing.T) {
	var s PaymentService
	var validation *common.ValidationError

	_, err := s.CreatePixIntent(0, "joao@example.com", "Rifa")
	require.ErrorAs(t, err, &validation)

	_, err = s.CreatePixIntent(-100, "joao@example.com", "Rifa")
	require.ErrorAs(t, err, &validation)

	_, err = s.CreatePixIntent(100, "", "Rifa")
	require.ErrorAs(t, err, &validation)
}

func TestMinorToMajorFormatting(t *testing.T) {
	assert.Equal(t, "0.05", minorToMajor(5))
	assert.Equal(t, "3.50", minorToMajor(350))
	assert.Equal(t, "10.00", minorToMajor(1000))
	assert.Equal(t, "123.45", minorToMajor(12345))
}

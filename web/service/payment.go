package service

import (
	"encoding/base64"
	"fmt"
	"time"

	"rifamania/util/common"
	"rifamania/util/random"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const pixIntentTTL = 30 * time.Minute

// PixIntent is what the buy page needs to collect a pix payment: the
// copy-paste code and its QR rendering. Amounts are centavos everywhere;
// the major-unit conversion happens exactly once, at the provider boundary.
type PixIntent struct {
	Id             string    `json:"id"`
	Amount         int64     `json:"amount"`
	Description    string    `json:"description"`
	PayerEmail     string    `json:"payerEmail"`
	CopyPaste      string    `json:"copyPaste"`
	QrCodeBase64   string    `json:"qrCodeBase64"`
	ExpiresAt      time.Time `json:"expiresAt"`
	IdempotencyKey string    `json:"-"`
}

// pixRequest is the body shape sent to the payment collaborator.
type pixRequest struct {
	TransactionAmount json.Number `json:"transaction_amount"`
	Description       string      `json:"description"`
	PaymentMethodId   string      `json:"payment_method_id"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

type PaymentService struct{}

// CreatePixIntent builds a pix payment intent for the given amount in
// centavos. The provider is an opaque collaborator; ticket reservation never
// waits for payment confirmation.
func (s *PaymentService) CreatePixIntent(amount int64, payerEmail, description string) (*PixIntent, error) {
	if amount <= 0 {
		return nil, &common.ValidationError{Msg: "O valor do pagamento deve ser positivo."}
	}
	if payerEmail == "" {
		return nil, &common.ValidationError{Msg: "Email do pagador é obrigatório."}
	}

	req := pixRequest{
		TransactionAmount: json.Number(minorToMajor(amount)),
		Description:       description,
		PaymentMethodId:   "pix",
	}
	req.Payer.Email = payerEmail
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	intent := &PixIntent{
		Id:             uuid.NewString(),
		Amount:         amount,
		Description:    description,
		PayerEmail:     payerEmail,
		ExpiresAt:      time.Now().Add(pixIntentTTL),
		IdempotencyKey: "payment_pix_" + random.Seq(16),
	}
	intent.CopyPaste = fmt.Sprintf("PIX|%s|%s|%s", intent.Id, minorToMajor(amount), base64.RawURLEncoding.EncodeToString(body))

	png, err := qrcode.Encode(intent.CopyPaste, qrcode.Medium, 256)
	if err != nil {
		return nil, err
	}
	intent.QrCodeBase64 = base64.StdEncoding.EncodeToString(png)
	return intent, nil
}

// minorToMajor renders centavos as a decimal string without going through
// floating point.
func minorToMajor(amount int64) string {
	return fmt.Sprintf("%d.%02d", amount/100, amount%100)
}

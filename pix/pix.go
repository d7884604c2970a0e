// Package pix describes the HTTP contract of the PIX backend the tester talks to.
package pix

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RootPath    = "/"
	WebhookPath = "/api/pix/webhook"
	StatsPath   = "/api/pix/special-logic-stats"
)

// URL joins base and path with exactly one slash between them.
func URL(base, path string) string { return strings.TrimRight(base, "/") + path }

const (
	StatusPaid         = "PAID"
	WebhookDescription = "Test deposit - PIX special logic"
)

// PlaceholderCreditParty is the simulated payer sent with every webhook.
var PlaceholderCreditParty = CreditParty{
	Name:    "João da Silva (Teste)",
	CPF:     "12345678900",
	Bank:    "260 - Nubank",
	Agency:  "0001",
	Account: "123456-7",
}

type CreditParty struct {
	Name    string `json:"name"`
	CPF     string `json:"cpf"`
	Bank    string `json:"bank"`
	Agency  string `json:"agency"`
	Account string `json:"account"`
}

// Amount is a decimal that travels as a bare JSON number.
type Amount struct{ decimal.Decimal }

func (a Amount) MarshalJSON() ([]byte, error) { return []byte(a.Decimal.String()), nil }

type WebhookRequest struct {
	Status        string      `json:"status"`
	TransactionID string      `json:"transactionId"`
	DateApproval  string      `json:"dateApproval"`
	CreditParty   CreditParty `json:"creditParty"`
	Amount        Amount      `json:"amount"`
	Description   string      `json:"description"`
}

// WebhookPayload is built fresh for every dispatch and never modified afterwards.
type WebhookPayload struct {
	RequestBody WebhookRequest `json:"requestBody"`
}

func NewWebhookPayload(transactionID string, amount decimal.Decimal, now time.Time) WebhookPayload {
	return WebhookPayload{RequestBody: WebhookRequest{
		Status:        StatusPaid,
		TransactionID: transactionID,
		DateApproval:  now.Format(time.RFC3339Nano),
		CreditParty:   PlaceholderCreditParty,
		Amount:        Amount{amount},
		Description:   WebhookDescription,
	}}
}

// Greeting is the body of GET /. Message is kept verbatim whatever its JSON type.
type Greeting struct {
	Message Verbatim `json:"message,omitzero"`
}

// ErrorResponse is the backend's error envelope.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type WebhookResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    WebhookResult `json:"data"`
}

type WebhookResult struct {
	UserID                Verbatim `json:"userId,omitzero"`
	SpecialLogicApplied   bool     `json:"specialLogicApplied"`
	OriginalAmount        Verbatim `json:"originalAmount,omitzero"`
	ActualPaymentAmount   Verbatim `json:"actualPaymentAmount,omitzero"`
	CancelledTransactions Verbatim `json:"cancelledTransactions,omitzero"`
	TotalCredited         Verbatim `json:"totalCredited,omitzero"`
	Note                  string   `json:"note,omitempty"`
}

type StatsResponse struct {
	Success bool      `json:"success"`
	Data    StatsData `json:"data"`
}

type StatsData struct {
	// Both are nil when the backend left them out.
	SpecialLogicStats   *SpecialLogicStats   `json:"specialLogicStats"`
	PendingTransactions []PendingTransaction `json:"pendingTransactions"`
}

type SpecialLogicStats struct {
	Total               Verbatim `json:"total"`
	Today               Verbatim `json:"today"`
	ThisWeek            Verbatim `json:"thisWeek"`
	ThisMonth           Verbatim `json:"thisMonth"`
	TotalAmountCredited Verbatim `json:"totalAmountCredited"`
}

type PendingTransaction struct {
	ID                string   `json:"id"`
	UserID            string   `json:"userId,omitempty"`
	Amount            Verbatim `json:"amount"`
	CreatedAt         string   `json:"createdAt"`
	ExternalReference string   `json:"externalReference,omitempty"`
}

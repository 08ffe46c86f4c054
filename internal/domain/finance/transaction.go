// Package finance holds payment transactions of jobs.
package finance

import (
	"time"

	"github.com/bookingops/console/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a transaction was paid
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentBankTransfer PaymentMethod = "BankTransfer"
	PaymentCard         PaymentMethod = "Card"
	PaymentEWallet      PaymentMethod = "EWallet"
)

// PaymentMethods lists the payment methods in display order
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentBankTransfer, PaymentCard, PaymentEWallet}

// TransactionStatus is the settlement state of a transaction
type TransactionStatus string

const (
	TransactionPending  TransactionStatus = "Pending"
	TransactionPaid     TransactionStatus = "Paid"
	TransactionFailed   TransactionStatus = "Failed"
	TransactionRefunded TransactionStatus = "Refunded"
)

// TransactionStatuses lists the statuses in display order
var TransactionStatuses = []TransactionStatus{TransactionPending, TransactionPaid, TransactionFailed, TransactionRefunded}

// Transaction is the payment record of a job
type Transaction struct {
	ID            string            `json:"_id"`
	Amount        decimal.Decimal   `json:"amount"`
	PaymentMethod PaymentMethod     `json:"paymentMethod"`
	Status        TransactionStatus `json:"status"`
	Note          string            `json:"note"`
	UserID        string            `json:"userId"`
	CreatedAt     *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time        `json:"updatedAt,omitempty"`
}

// TransactionInput is the update payload for a transaction. Only the note,
// status and payment method are editable.
type TransactionInput struct {
	Note          string            `json:"note"`
	Status        TransactionStatus `json:"status,omitempty"`
	PaymentMethod PaymentMethod     `json:"paymentMethod,omitempty"`
}

// TransactionRepository is the remote transaction collection
type TransactionRepository interface {
	shared.Reader[Transaction]
	shared.Updater[TransactionInput]
}

// Package finance builds the transaction screen.
package finance

import (
	"context"

	"github.com/bookingops/console/internal/application/console"
	"github.com/bookingops/console/internal/domain/finance"
	"github.com/bookingops/console/internal/domain/form"
	"github.com/bookingops/console/internal/domain/table"
)

// EntityTransaction is the entity name used in routes
const EntityTransaction = "transaction"

// TransactionColumns are the list columns of the transaction screen
func TransactionColumns() []table.Column[finance.Transaction] {
	return []table.Column[finance.Transaction]{
		{Key: "id", Label: "Transaction", MinWidth: 200, Render: func(t finance.Transaction) table.Cell {
			return table.Link(t.ID, "/"+EntityTransaction+"/"+t.ID)
		}},
		{Key: "amount", Align: table.AlignRight, Sortable: true, Render: func(t finance.Transaction) table.Cell {
			return table.Text(t.Amount.StringFixed(2))
		}},
		{Key: "paymentMethod", Render: func(t finance.Transaction) table.Cell {
			return table.Text(table.Humanize(string(t.PaymentMethod)))
		}},
		{Key: "status", Align: table.AlignCenter, Render: func(t finance.Transaction) table.Cell { return table.Text(string(t.Status)) }},
		{Key: "note", MinWidth: 200, Render: func(t finance.Transaction) table.Cell { return table.Text(t.Note) }},
		{Key: "createdAt", Sortable: true, Render: func(t finance.Transaction) table.Cell {
			return table.Text(console.FormatTime(t.CreatedAt))
		}},
	}
}

// the amount and payer come from the booking flow and stay read-only
func buildTransactionForm(_ context.Context, rec *finance.Transaction) (*form.Form, error) {
	var t finance.Transaction
	if rec != nil {
		t = *rec
	}
	return form.New(
		form.Spec{Label: "Amount", Alias: "amount", Type: form.TypeNumber, Value: console.DecimalValue(t.Amount), Disabled: true},
		form.Spec{Label: "User", Alias: "userId", Type: form.TypeText, Value: form.Text(t.UserID), Disabled: true},
		form.Spec{Label: "Payment Method", Alias: "paymentMethod", Type: form.TypeDropdown, Value: form.Text(string(t.PaymentMethod)), Required: true, Choices: console.EnumChoices(finance.PaymentMethods)},
		form.Spec{Label: "Status", Alias: "status", Type: form.TypeDropdown, Value: form.Text(string(t.Status)), Required: true, Choices: console.EnumChoices(finance.TransactionStatuses)},
		form.Spec{Label: "Note", Alias: "note", Type: form.TypeText, Value: form.Text(t.Note)},
	), nil
}

func transactionInput(_ context.Context, f *form.Form) (finance.TransactionInput, error) {
	s := f.Scope()
	return finance.TransactionInput{
		Note:          s.Text("note"),
		Status:        finance.TransactionStatus(s.Text("status")),
		PaymentMethod: finance.PaymentMethod(s.Text("paymentMethod")),
	}, nil
}

// NewTransactionScreen creates the transaction screen. Transactions are
// created by bookings and never deleted from the console.
func NewTransactionScreen(repo finance.TransactionRepository, pageSize int) *console.Resource[finance.Transaction] {
	return console.NewResource[finance.Transaction](EntityTransaction, repo, TransactionColumns(), buildTransactionForm,
		console.WithPageSize[finance.Transaction](pageSize),
		console.WithUpdate[finance.Transaction](console.UpdateWith[finance.TransactionInput](repo, transactionInput)),
	)
}

package parser

import (
	"strings"
	"testing"

	"github.com/centsible/centsible-server/internal/models"
)

func TestNormalizeRow_DebitCreditColumns(t *testing.T) {
	m := MappingFor(models.BankCapitec)
	header := []string{"Date", "Description", "Money Out", "Money In", "Balance"}

	tests := []struct {
		name       string
		row        []string
		wantType   models.TransactionType
		wantAmount string
		wantSkip   bool
	}{
		{
			name:       "debit column set",
			row:        []string{"15/01/2024", "CARD PURCHASE CHECKERS", "120.50", "", "1,879.50"},
			wantType:   models.TypeDebit,
			wantAmount: "120.5",
		},
		{
			name:       "credit column set",
			row:        []string{"25/01/2024", "SALARY", "", "25,000.00", "26,879.50"},
			wantType:   models.TypeCredit,
			wantAmount: "25000",
		},
		{
			name:     "both zero is a silent skip",
			row:      []string{"31/01/2024", "MONTHLY STATEMENT", "0.00", "0.00", "26,879.50"},
			wantSkip: true,
		},
		{
			name:     "missing description is a silent skip",
			row:      []string{"31/01/2024", "", "10.00", "", ""},
			wantSkip: true,
		},
		{
			name:     "missing date is a silent skip",
			row:      []string{"", "CLOSING BALANCE", "", "", "26,879.50"},
			wantSkip: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn, err := NormalizeRow(tt.row, header, 2, m)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantSkip {
				if txn != nil {
					t.Fatalf("expected skip, got %+v", txn)
				}
				return
			}
			if txn == nil {
				t.Fatal("expected a transaction, got skip")
			}
			if txn.Type != tt.wantType {
				t.Errorf("type: got %q, want %q", txn.Type, tt.wantType)
			}
			if txn.Amount.String() != tt.wantAmount {
				t.Errorf("amount: got %s, want %s", txn.Amount, tt.wantAmount)
			}
			if txn.Amount.IsNegative() {
				t.Error("amount must never be negative")
			}
		})
	}
}

func TestNormalizeRow_SignedAmountColumn(t *testing.T) {
	m := MappingFor(models.BankGeneric)
	header := []string{"Date", "Description", "Amount"}

	txn, err := NormalizeRow([]string{"2024-01-15", "CARD PURCHASE", "-35.00"}, header, 2, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Type != models.TypeDebit {
		t.Errorf("negative amount should be a debit, got %q", txn.Type)
	}
	if txn.Amount.String() != "35" {
		t.Errorf("amount: got %s, want 35", txn.Amount)
	}

	txn, err = NormalizeRow([]string{"2024-01-16", "REFUND", "35.00"}, header, 3, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Type != models.TypeCredit {
		t.Errorf("positive amount should be a credit, got %q", txn.Type)
	}
}

func TestNormalizeRow_ParenthesizedAmount(t *testing.T) {
	m := MappingFor(models.BankGeneric)
	header := []string{"Date", "Description", "Amount"}

	txn, err := NormalizeRow([]string{"2024-01-15", "REVERSAL", "(123.45)"}, header, 2, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Type != models.TypeDebit {
		t.Errorf("parenthesized amount should be a debit, got %q", txn.Type)
	}
	if txn.Amount.String() != "123.45" {
		t.Errorf("amount: got %s, want 123.45", txn.Amount)
	}
}

func TestNormalizeRow_BadDateReportsRowNumber(t *testing.T) {
	m := MappingFor(models.BankGeneric)
	header := []string{"Date", "Description", "Amount"}

	_, err := NormalizeRow([]string{"garbage", "CARD PURCHASE", "-35.00"}, header, 6, m)
	if err == nil {
		t.Fatal("expected error for bad date")
	}
	if !strings.HasPrefix(err.Error(), "Row 6:") {
		t.Errorf("error should reference row 6, got %q", err.Error())
	}
}

func TestNormalizeRow_HeaderNameLookup(t *testing.T) {
	m := MappingFor(models.BankAbsa)
	// Absa resolves by header name, so column order must not matter.
	header := []string{"Reference", "Amount", "Transaction Date", "Description", "Balance"}
	row := []string{"REF001", "-250.00", "15/01/2024", "DEBIT ORDER INSURANCE", "4,750.00"}

	txn, err := NormalizeRow(row, header, 2, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.Type != models.TypeDebit {
		t.Errorf("type: got %q, want debit", txn.Type)
	}
	if txn.Amount.String() != "250" {
		t.Errorf("amount: got %s, want 250", txn.Amount)
	}
	if txn.Reference != "REF001" {
		t.Errorf("reference: got %q, want REF001", txn.Reference)
	}
	if txn.Balance == nil || txn.Balance.String() != "4750" {
		t.Errorf("balance: got %v, want 4750", txn.Balance)
	}
}

package domain

import "time"

type CreditNoteStatus string

const (
	CreditNoteActive   CreditNoteStatus = "active"
	CreditNoteRedeemed CreditNoteStatus = "redeemed"
	CreditNoteVoid     CreditNoteStatus = "void"
)

// Valid reports whether s is a known status.
func (s CreditNoteStatus) Valid() bool {
	switch s {
	case CreditNoteActive, CreditNoteRedeemed, CreditNoteVoid:
		return true
	}
	return false
}

// CreditNote is store credit issued to a customer at a shop. Amounts are in
// minor currency units.
type CreditNote struct {
	ID         string // ULID
	Shop       string
	Code       string // Printed on the receipt
	CustomerID string
	Amount     int64
	Balance    int64
	Currency   string
	Status     CreditNoteStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

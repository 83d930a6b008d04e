package models

import (
	"encoding/json"
	"net/url"
	"time"
)

// PaymentMethod is the fee payment method enum.
type PaymentMethod string

// Payment methods
const (
	PayCash       PaymentMethod = "Cash"
	PayCard       PaymentMethod = "Card"
	PayUPI        PaymentMethod = "UPI"
	PayNetBanking PaymentMethod = "Net Banking"
	PayCheque     PaymentMethod = "Cheque"
)

// PaymentMethods lists the selectable payment methods in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PayCash, PayCard, PayUPI, PayNetBanking, PayCheque}
}

// FeePayment is one payment transaction against a registration, as
// returned by the history and detail endpoints.
type FeePayment struct {
	ID             json.Number `json:"id"`
	RegistrationNo string      `json:"registration_no"`
	StudentName    string      `json:"student_name"`
	Course         string      `json:"course"`
	FeeDate        string      `json:"fee_date"`
	TotalFees      Amount      `json:"total_fees"`
	PaidFees       Amount      `json:"paid_fees"`
	DueFees        Amount      `json:"due_fees"`
	DueDate        string      `json:"due_date"`
	PaidThrough    string      `json:"paid_through"`
	ReceivedBy     string      `json:"received_by"`
	PaymentStatus  string      `json:"payment_status"`
}

// FeeRegistrationOption is one entry of the fee-entry registration lookup:
// a registration number plus the denormalized snapshot used to pre-fill
// the fee form.
type FeeRegistrationOption struct {
	RegistrationNo string `json:"registration_no"`
	StudentName    string `json:"student_name"`
	Course         string `json:"course"`
	TotalFees      Amount `json:"total_fees"`
	DueFees        Amount `json:"due_fees"`
}

// FeesPayload carries the fields a fee-entry creation submits. The wire
// mapping is fixed and explicit, unlike the other entities.
type FeesPayload struct {
	RegistrationNo string
	FeeDate        time.Time
	PaidFees       string
	PaidThrough    string
	ReceivedBy     string
}

// Values encodes the payload with the server's fixed field mapping. The
// fee date travels as YYYY-MM-DD; a zero date is sent as an empty string.
func (p FeesPayload) Values() url.Values {
	feeDate := ""
	if !p.FeeDate.IsZero() {
		feeDate = p.FeeDate.Format("2006-01-02")
	}
	return url.Values{
		"registration_no": {p.RegistrationNo},
		"fee_date":        {feeDate},
		"paid_fees":       {p.PaidFees},
		"paid_through":    {p.PaidThrough},
		"received_by":     {p.ReceivedBy},
	}
}

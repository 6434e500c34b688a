package domain

// RecordKind is the derived transaction kind. It is never stored; the kind
// follows from the donor/recipient shape of the record.
type RecordKind string

const (
	// Order is a shared expense with no designated payer yet.
	Order RecordKind = "ORDER"
	// Pay is a bare deposit by the donor, with no recipients.
	Pay RecordKind = "PAY"
	// Buy is a reimbursed purchase where the payer is also a beneficiary.
	Buy RecordKind = "BUY"
	// Give is a direct transfer or loan from the donor to the recipients.
	Give RecordKind = "GIVE"
)

// Recipient is the projection of one beneficiary of a record, carrying the
// member's current active flag for frozen-share redistribution.
type Recipient struct {
	Account string `json:"account"`
	Active  bool   `json:"active"`
}

// Record is one monetary transaction of a group ledger.
//
// Amount is the total of the transaction in integer minor units (cents); a
// single share is Amount/RecipientsQuantity. RecipientsQuantity keeps the
// recipient count at creation time: members excluded from the registry
// afterwards disappear from Recipients, so len(Recipients) may be smaller.
// That difference drives the "non-deleted" re-apportionment of the balance
// engine.
type Record struct {
	ChatID             int64       `json:"chatID"`
	ID                 int64       `json:"id"`
	DonorAccount       *string     `json:"donorAccount,omitempty"`
	HasDonor           bool        `json:"hasDonor"`
	DonorActive        bool        `json:"donorActive"`
	Recipients         []Recipient `json:"recipients"`
	RecipientsQuantity int         `json:"recipientsQuantity"`
	Amount             int64       `json:"amount"`
	Active             bool        `json:"active"`
	MessageID          *int64      `json:"messageID,omitempty"`
	ReplyID            *int64      `json:"replyID,omitempty"`
}

// Kind classifies the record from its donor/recipient shape.
func (r Record) Kind() RecordKind {
	if !r.HasDonor {
		return Order
	}
	if r.RecipientsQuantity == 0 {
		return Pay
	}
	if r.DonorAccount != nil {
		for _, rec := range r.Recipients {
			if rec.Account == *r.DonorAccount {
				return Buy
			}
		}
	}
	return Give
}

// Share is one recipient's nominal part of the record in minor units.
// Division stays in floating point; truncation happens only at the final
// aggregation step.
func (r Record) Share() float64 {
	return float64(r.Amount) / float64(r.RecipientsQuantity)
}

// LiveAmount rescales the total to the recipients still present in the
// registry. Used when a record is re-issued as a command, so the new
// transaction reproduces the live obligation rather than the stale total.
func (r Record) LiveAmount() float64 {
	if r.RecipientsQuantity == 0 {
		return float64(r.Amount)
	}
	return r.Share() * float64(len(r.Recipients))
}

// ActiveRecipients counts recipients whose member is not frozen.
func (r Record) ActiveRecipients() int {
	n := 0
	for _, rec := range r.Recipients {
		if rec.Active {
			n++
		}
	}
	return n
}

// UnfrozenShare is the per-active-recipient share after frozen members are
// taken out of the split: the non-deleted part of the amount divided by the
// active recipient count, or 0 when no active recipient remains.
func (r Record) UnfrozenShare() float64 {
	active := r.ActiveRecipients()
	if active == 0 {
		return 0
	}
	nonDeleted := r.Share() * float64(len(r.Recipients))
	return nonDeleted / float64(active)
}

// HasRecipient reports whether the account appears among the record's
// surviving recipients.
func (r Record) HasRecipient(account string) bool {
	for _, rec := range r.Recipients {
		if rec.Account == account {
			return true
		}
	}
	return false
}

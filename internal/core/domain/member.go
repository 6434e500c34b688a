package domain

import "regexp"

// AccountKind classifies how a member account maps to the chat platform.
type AccountKind string

const (
	// KindUser is a numeric platform user id.
	KindUser AccountKind = "USER"
	// KindGhost is a free-text identity for participants without a platform account.
	KindGhost AccountKind = "GHOST"
)

var numericAccount = regexp.MustCompile(`^[0-9]+$`)

// Member represents one participant of a chat group's shared ledger.
// A frozen (inactive) member keeps historical obligations but is excluded
// from the redistribution pool of new orders.
type Member struct {
	ChatID  int64  `json:"chatID"`
	Account string `json:"account"`
	Active  bool   `json:"active"`
}

// Kind derives the account kind from the account shape.
// It is computed on read and never persisted, so kind and data cannot drift apart.
func (m Member) Kind() AccountKind {
	if numericAccount.MatchString(m.Account) {
		return KindUser
	}
	return KindGhost
}

// MemberBalance is one row of the balance report: the member's net position
// in major currency units. Positive means the member is owed money.
// UnfrozenSum is the same net with frozen members' shares redistributed
// across the still-active recipients of each record.
type MemberBalance struct {
	Member
	TotalSum    int64 `json:"totalSum"`
	UnfrozenSum int64 `json:"unfrozenSum"`
}

// DebtorEntry is one counterparty line of a settlement breakdown.
// Debit is signed: positive means the principal owes this member.
type DebtorEntry struct {
	Member
	Debit         int64 `json:"debit"`
	DebitUnfrozen int64 `json:"debitUnfrozen"`
}

// DebtBreakdown decomposes one member's net position into per-counterparty
// amounts. PrincipalDebt and PrincipalPart mirror the principal's TotalSum
// and UnfrozenSum from the balance report over the same snapshot.
type DebtBreakdown struct {
	PrincipalDebt int64         `json:"principalDebt"`
	PrincipalPart int64         `json:"principalPart"`
	DonorsDebtors []DebtorEntry `json:"donorsDebtors"`
}

package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrRejected indicates a command was refused on user input (unknown member,
// missing amount, wrong recipients for the operation). Nothing was mutated.
// The wrapped message is safe to show to the user.
var ErrRejected = errors.New("command rejected")

// ErrInconsistent indicates the registry and the ledger disagree (for example
// a settlement principal missing from the computed balances). This is a
// defect, not a user error, and is never translated into a polite reply.
var ErrInconsistent = errors.New("ledger inconsistent")

package ledger

import "errors"

var (
	// ErrNotFound is returned when an entity ID does not exist in the ledger.
	ErrNotFound = errors.New("not found")
	// ErrLinkedCategory is returned when deleting a category owned by a debt.
	// Delete the debt instead.
	ErrLinkedCategory = errors.New("category is linked to a debt")
	// ErrDuplicateLink is returned when a second category would link to the same debt.
	ErrDuplicateLink = errors.New("debt already has a linked category")
	// ErrInvalidMonth is returned for a month index outside 0..11.
	ErrInvalidMonth = errors.New("month index must be between 0 and 11")
	// ErrInvalid is returned for any other rejected field value.
	ErrInvalid = errors.New("invalid value")
)

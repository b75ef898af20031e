package domain

// Record is implemented by every collection element. WithID returns a copy
// carrying the given id, which lets generic code assign and pin ids without
// reflection.
type Record[T any] interface {
	RecordID() ID
	WithID(id ID) T
}

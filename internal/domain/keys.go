package domain

// Durable storage keys. Every component reads and writes the trip's data
// through exactly these names; a snapshot document uses them as its fields.
const (
	KeySchedule = "nagoya_schedule_items"
	KeyExpenses = "nagoya_expense_items"
	KeyJournal  = "nagoya_journal_items"
	KeyPlanning = "nagoya_planning_items"
	KeyTripID   = "shared_trip_id"
)

// SnapshotKeys lists every key a snapshot carries, in document order.
var SnapshotKeys = []string{KeySchedule, KeyExpenses, KeyJournal, KeyPlanning, KeyTripID}

// Collection names used in URLs and logs.
const (
	CollectionSchedule = "schedule"
	CollectionExpenses = "expenses"
	CollectionJournal  = "journal"
	CollectionPlanning = "planning"
)

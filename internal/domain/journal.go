package domain

// JournalEntry is one post in the photo journal. ImageURL references an
// image hosted elsewhere; no binary data is stored.
type JournalEntry struct {
	ID       ID     `json:"id"`
	Author   string `json:"author"`
	Text     string `json:"text" validate:"required"`
	Date     string `json:"date"`
	Location string `json:"location"`
	ImageURL string `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Extra    Extra  `json:"-"`
}

func (j *JournalEntry) UnmarshalJSON(b []byte) error {
	type plain JournalEntry
	return decodeRecord(b, (*plain)(j), &j.Extra)
}

func (j JournalEntry) MarshalJSON() ([]byte, error) {
	type plain JournalEntry
	return encodeRecord(plain(j), j.Extra)
}

// RecordID implements Record.
func (j JournalEntry) RecordID() ID { return j.ID }

// WithID implements Record.
func (j JournalEntry) WithID(id ID) JournalEntry {
	j.ID = id
	return j
}

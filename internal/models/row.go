package models

// ExtractedRow is one row of the main table. Values holds a snapshot of the
// column names configured when the row was created.
type ExtractedRow struct {
	ID           string            `json:"id"`
	OriginalText string            `json:"originalText"`
	Values       map[string]string `json:"values"`
}

// Value returns the row's value for column name, or "" if the row was created
// before that column existed.
func (r ExtractedRow) Value(name string) string {
	return r.Values[name]
}

// ContentRecord is a title/body pair reconstructed from a content extraction.
type ContentRecord struct {
	Titre   string `json:"titre"`
	Contenu string `json:"contenu"`
}

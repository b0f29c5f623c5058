package persist

// Profile is the identity boundary's profile record. The pipeline only reads
// CreditsUsed and IsPro; the rest is display data.
type Profile struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	CreditsUsed int    `json:"credits_used"`
	IsPro       bool   `json:"is_pro"`
}

// scanner interface for both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

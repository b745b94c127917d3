package transport

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CategoryRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// TaskRequest carries every editable field; updates replace the whole row.
type TaskRequest struct {
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     string  `json:"due_date"`
	Completed   bool    `json:"completed"`
	CategoryID  *string `json:"category_id"`
}

type RefreshRequest struct {
	TTL int `json:"ttl_seconds"`
}

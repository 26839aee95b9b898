package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    string `json:"id"`
	Email string `json:"email"`
}

type UploadResponse struct {
	Document Document `json:"document"`
	URL      string   `json:"url"`
}

type VersionUploadResponse struct {
	Version DocumentVersion `json:"version"`
	URL     string          `json:"url"`
}

type DocumentURLResponse struct {
	URL string `json:"url"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

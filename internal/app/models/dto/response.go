package dto

import "time"

// APIResponse is the standard success envelope for API endpoints
type APIResponse struct {
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// SuccessResponse represents a standard success message
type SuccessResponse struct {
	Message string `json:"message"`
}

// LoginResponse carries the issued token and the authenticated user
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int         `json:"expiresIn"`
	User      interface{} `json:"user"`
}

// StorageStatusResponse reports which backend currently serves operations
type StorageStatusResponse struct {
	Offline bool   `json:"offline"`
	State   string `json:"state"`
}

// ImportResponse reports the outcome of a snapshot import
type ImportResponse struct {
	Imported bool `json:"imported"`
}

// ViolationResponse reports the updated anti-cheat counter for a session
type ViolationResponse struct {
	Violations int         `json:"violations"`
	Terminated bool        `json:"terminated"`
	Outcome    interface{} `json:"outcome,omitempty"`
}

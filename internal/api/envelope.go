package api

import (
	"encoding/json"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
)

// Envelope is the backend's duck-typed response wrapper. Every field
// is optional; Err resolves it into a typed result at the decode
// boundary so callers never inspect it ad hoc.
type Envelope struct {
	Status       string          `json:"status"`
	Message      string          `json:"message"`
	StatusCode   int             `json:"statusCode"`
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	User         *models.Student `json:"user"`
	Data         json.RawMessage `json:"data"`
}

// Err returns nil when the envelope reports success, otherwise a
// RemoteError carrying the envelope's message. Responses that omit the
// status field entirely count as success; some endpoints reply with a
// bare payload.
func (e *Envelope) Err() error {
	if e.Status == "success" || (e.Status == "" && e.StatusCode < 400) {
		return nil
	}
	code := e.StatusCode
	if code == 0 {
		code = 400
	}
	return &RemoteError{StatusCode: code, Message: e.Message}
}

// Request bodies, field names matching the backend wire format.

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	LastName    string `json:"nom"`
	FirstName   string `json:"prenom"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Phone       string `json:"numTel,omitempty"`
	Institution string `json:"nomFac,omitempty"`
	Department  string `json:"nomDep,omitempty"`
	Level       string `json:"niveau,omitempty"`
	Track       string `json:"filiere,omitempty"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

package domain

import "encoding/json"

// DefaultUserID es el identificador que se usa mientras no haya un proveedor de identidad real.
const DefaultUserID = "user123"

// GoalRequest es el cuerpo que viaja a POST /generate-roadmap.
type GoalRequest struct {
	Goal   string `json:"goal"`
	UserID string `json:"user_id"`
}

// GoalResponse guarda el cuerpo devuelto por el servicio tal cual llegó.
// Roadmap solo se completa cuando el cuerpo tiene forma de roadmap.
type GoalResponse struct {
	StatusCode int             `json:"status_code"`
	Body       json.RawMessage `json:"body"`
	Roadmap    *Roadmap        `json:"roadmap,omitempty"`
}

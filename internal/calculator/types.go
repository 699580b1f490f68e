package calculator

import "go-chi-calculator/internal/engine"

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeysRequest struct {
	Tokens []string `json:"tokens"`
}

// SessionResponse describes a session's current state.
type SessionResponse struct {
	SessionID string       `json:"session_id"`
	Display   string       `json:"display"`
	Phase     string       `json:"phase"`
	State     engine.State `json:"state"`
}

// ApplyRequest is the JSON body for POST /calculator/apply. A missing state
// means the identity state.
type ApplyRequest struct {
	State *engine.State `json:"state,omitempty"`
	Token string        `json:"token"`
}

// ApplyResponse is the JSON response for POST /calculator/apply.
type ApplyResponse struct {
	Display  string       `json:"display"`
	Phase    string       `json:"phase"`
	Class    string       `json:"class"`
	Fallback bool         `json:"fallback"`
	State    engine.State `json:"state"`
}

// ReplayRequest is the JSON body for POST /calculator/replay.
type ReplayRequest struct {
	Tokens []string `json:"tokens"`
}

// ReplayStep records one replayed token.
type ReplayStep struct {
	Token    string `json:"token"`
	Class    string `json:"class"`
	Display  string `json:"display"`
	Fallback bool   `json:"fallback,omitempty"`
}

// ReplayResponse is the JSON response for POST /calculator/replay.
type ReplayResponse struct {
	Steps   []ReplayStep `json:"steps"`
	Display string       `json:"display"`
	State   engine.State `json:"state"`
}

// KeypadResponse lists the recognised tokens in keypad order.
type KeypadResponse struct {
	Tokens []string `json:"tokens"`
}

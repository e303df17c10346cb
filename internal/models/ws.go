package models

import "github.com/google/uuid"

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// ModuleStatusUpdate is pushed over the websocket whenever a module
// transitions between processing states.
type ModuleStatusUpdate struct {
	ModuleID uuid.UUID `json:"module_id"`
	Status   string    `json:"status"`
	Stage    string    `json:"stage,omitempty"`
	Degraded bool      `json:"degraded,omitempty"`
}

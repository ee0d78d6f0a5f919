package models

import (
	"time"

	"github.com/claude/wodboard/internal/wod"
	"github.com/google/uuid"
)

// Division records whether a result was done as prescribed or scaled.
type Division string

const (
	RX     Division = "RX"
	Scaled Division = "SCALED"
)

// Valid reports whether d is RX or SCALED.
func (d Division) Valid() bool {
	switch d {
	case RX, Scaled:
		return true
	}
	return false
}

// WodRow is a row in the wods table. Date is unique per calendar day.
type WodRow struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        wod.Type  `json:"type"`
	Movements   []string  `json:"movements"`
	Date        time.Time `json:"date"`
	CreatedBy   *int      `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	ResultCount int       `json:"result_count"`
}

// ResultRow is an athlete's score for a WOD. One row per (wod, user).
type ResultRow struct {
	ID          uuid.UUID `json:"id"`
	WodID       uuid.UUID `json:"wod_id"`
	UserID      int       `json:"user_id"`
	Login       string    `json:"login,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	Score       string    `json:"score"`
	Division    Division  `json:"division"`
	Memo        *string   `json:"memo,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PRRow is one personal-record entry. History is kept; the best entry per
// movement is computed on read.
type PRRow struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"user_id"`
	Movement  string    `json:"movement"`
	Value     float64   `json:"value"`
	Unit      string    `json:"unit"`
	Memo      *string   `json:"memo,omitempty"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationType names the event behind a notification.
type NotificationType string

const (
	NotificationPRAchieved NotificationType = "PR_ACHIEVED"
)

// NotificationRow is a message shown in an athlete's notification list.
type NotificationRow struct {
	ID        uuid.UUID        `json:"id"`
	UserID    int              `json:"user_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	RelatedID *uuid.UUID       `json:"related_id,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

package models

import (
	"time"

	"github.com/uptrace/bun"
)

const MaxPhraseLength = 500

type QRCode struct {
	bun.BaseModel `bun:"table:qrcodes"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	Phrase    string    `bun:"phrase,notnull" json:"phrase"`
	ShortCode string    `bun:"short_code,unique,notnull" json:"short_code"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// PublicQRCode is the only view of a QR code exposed without authentication.
type PublicQRCode struct {
	Phrase    string    `json:"phrase"`
	CreatedAt time.Time `json:"created_at"`
}

type QRCodeRequest struct {
	ID     string `json:"id"`
	Phrase string `json:"phrase"`
}

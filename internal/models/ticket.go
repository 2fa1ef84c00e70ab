package models

import (
	"github.com/shopspring/decimal"
)

// TicketType identifies the bet type of a ticket. Only win tickets are
// generated today; combined types exist for odds estimation.
type TicketType string

// Ticket types.
const (
	TicketWin      TicketType = "win"
	TicketQuinella TicketType = "quinella"
	TicketWide     TicketType = "wide"
	TicketExacta   TicketType = "exacta"
)

// Ticket is a single suggested purchase.
type Ticket struct {
	Type        TicketType      `json:"type"`
	HorseNumber int             `json:"horse_number"`
	HorseName   string          `json:"horse_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// BettingPlan is the full ticket suggestion for a race under a fixed budget.
type BettingPlan struct {
	Strategy string           `json:"strategy"`
	Tickets  []Ticket         `json:"tickets"`
	TotalBet decimal.Decimal  `json:"total_bet"`
	Honmei   *ScoreBreakdown  `json:"honmei,omitempty"`
	Taikou   []ScoreBreakdown `json:"taikou,omitempty"`
	Anauma   []ScoreBreakdown `json:"anauma,omitempty"`
}

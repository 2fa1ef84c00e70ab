package models

import "errors"

// Custom errors
var (
	ErrNoHorses            = errors.New("race card has no horses")
	ErrInsufficientEntries = errors.New("fewer than three scored entries")
	ErrBudgetTooSmall      = errors.New("budget below minimum bet unit")
	ErrNotFound            = errors.New("record not found")
	ErrInvalidRaceCard     = errors.New("race card failed validation")
)

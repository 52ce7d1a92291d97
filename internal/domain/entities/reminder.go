package entities

import "time"

// ReminderCategory represents the notice category
type ReminderCategory string

const (
	ReminderCategoryGeneral       ReminderCategory = "GENERAL"
	ReminderCategoryUrgent        ReminderCategory = "URGENT"
	ReminderCategoryProjectUpdate ReminderCategory = "PROJECT_UPDATE"
)

// Valid reports whether c is a known category.
func (c ReminderCategory) Valid() bool {
	switch c {
	case ReminderCategoryGeneral, ReminderCategoryUrgent, ReminderCategoryProjectUpdate:
		return true
	}
	return false
}

// Reminder is a broadcast notice. Reminders are append-only.
type Reminder struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Date       time.Time        `json:"date"`
	SenderName string           `json:"senderName"`
	Category   ReminderCategory `json:"category"`
}

// BroadcastInput represents input for broadcasting a notice
type BroadcastInput struct {
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Category ReminderCategory `json:"category"`
}

// LatestUrgent returns the most recent urgent reminder of a most-recent-first log.
func LatestUrgent(reminders []Reminder) *Reminder {
	for i := range reminders {
		if reminders[i].Category == ReminderCategoryUrgent {
			r := reminders[i]
			return &r
		}
	}
	return nil
}

// Package domain defines the types and interfaces for the gate service
package domain

import "time"

// VerdictRecord is the persisted audit row for one gate decision
type VerdictRecord struct {
	ID           string    `json:"id"`
	CheckedAt    time.Time `json:"checked_at"`
	SenderID     string    `json:"sender_id"`
	GroupID      string    `json:"group_id"`
	Blocked      bool      `json:"blocked"`
	Reason       string    `json:"reason"`
	Term         string    `json:"term,omitempty"`
	IsDispatcher bool      `json:"is_dispatcher"`
	AutoBlock    bool      `json:"auto_block"`
}

// BlockedSender is one row of the persistent block list
type BlockedSender struct {
	SenderID  string    `json:"sender_id"`
	Reason    string    `json:"reason"`
	Term      string    `json:"term,omitempty"`
	BlockedAt time.Time `json:"blocked_at"`
}

// Logistics is the structured cargo data pulled from an allowed post.
// Empty fields were not present in the text
type Logistics struct {
	RouteFrom    string `json:"route_from,omitempty"`
	RouteTo      string `json:"route_to,omitempty"`
	CargoType    string `json:"cargo_type,omitempty"`
	Weight       string `json:"weight,omitempty"`
	VehicleType  string `json:"vehicle_type,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	Price        string `json:"price,omitempty"`
}

// Detection is the soft scorer's wire form
type Detection struct {
	IsDispatcher    bool     `json:"is_dispatcher"`
	Confidence      float64  `json:"confidence"`
	DispatcherScore float64  `json:"dispatcher_score"`
	OwnerScore      float64  `json:"owner_score"`
	Reasons         []string `json:"reasons,omitempty"`
	PhoneCount      int      `json:"phone_count"`
	EmojiCount      int      `json:"emoji_count"`
	LineCount       int      `json:"line_count"`
}

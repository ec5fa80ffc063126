// Package models defines data structures shared across the application.
package models

import (
	"time"
)

// OrderType identifies which upstream order collection a card belongs to.
type OrderType string

const (
	// OrderTypeBuild is a build (manufacturing) order.
	OrderTypeBuild OrderType = "build"
	// OrderTypePurchase is a purchase order.
	OrderTypePurchase OrderType = "purchase"
	// OrderTypeSales is a sales order.
	OrderTypeSales OrderType = "sales"
)

// OrderTypes lists every order type in display order.
var OrderTypes = []OrderType{OrderTypeBuild, OrderTypePurchase, OrderTypeSales}

var orderTypeLabels = map[OrderType]string{
	OrderTypeBuild:    "Build Orders",
	OrderTypePurchase: "Purchase Orders",
	OrderTypeSales:    "Sales Orders",
}

// Label returns the human readable name of the order type, e.g. "Build Orders".
func (t OrderType) Label() string {
	if label, ok := orderTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Stage is one of the five abstract pipeline columns of the board.
type Stage string

const (
	StageBacklog    Stage = "BACKLOG"
	StageInProgress Stage = "IN_PROGRESS"
	StageOnHold     Stage = "ON_HOLD"
	StageReview     Stage = "REVIEW"
	StageDone       Stage = "DONE"
)

// Stages lists every stage in enumeration order. Lookups that resolve
// ambiguity by first match walk this slice.
var Stages = []Stage{StageBacklog, StageInProgress, StageOnHold, StageReview, StageDone}

// Priority is the optional urgency of a card.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// StatusPayload is the canonical native status written back to the order store
// when a card is moved into a stage.
type StatusPayload struct {
	// Label is the display text sent as status_text
	Label string

	// Code is the numeric status code sent as status
	Code int
}

// Card is the canonical board record built from one raw upstream order.
type Card struct {
	// ID is the upstream identifier, stringified. Unique only within its Type.
	ID string

	// Type is the order collection the card came from
	Type OrderType

	// Reference is the human order reference, e.g. "PO-0042"
	Reference string

	// Title is the short description shown on the card
	Title string

	// Status is the raw native status text, kept verbatim
	Status string

	// Stage is the normalized column the card is shown in
	Stage Stage

	// DueDate is nil when the upstream record has no usable date
	DueDate *time.Time

	Assignee    string
	Priority    Priority
	UserColor   string
	Link        string
	Description string

	// Meta holds the original upstream fields for traceability
	Meta map[string]any
}

// Key returns the identifier qualified by order type, e.g. "build:12".
// IDs collide across order types, Key does not.
func (c Card) Key() string {
	return string(c.Type) + ":" + c.ID
}

// Column is one stage of the board with the cards currently in it.
type Column struct {
	Stage       Stage
	Title       string
	Description string
	Cards       []Card
}

// UserColorSettings configures assignee colors.
type UserColorSettings struct {
	// ExplicitMap pins a color to a lowercase assignee name
	ExplicitMap map[string]string

	// Palette is hashed into when ExplicitMap has no entry
	Palette []string
}

// Settings holds the decoded plugin settings.
type Settings struct {
	EnableBuild    bool
	EnablePurchase bool
	EnableSales    bool

	// UserColors is nil when neither a map nor a palette is configured,
	// meaning the built-in palette applies.
	UserColors *UserColorSettings
}

// Package normalize builds board cards from raw order records whose field
// names and value types vary between order types and server versions.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielolaszy/orderboard/internal/color"
	"github.com/danielolaszy/orderboard/internal/status"
	"github.com/danielolaszy/orderboard/pkg/models"
)

const (
	// DefaultTitle is used when a record has no descriptive text.
	DefaultTitle = "No description provided"
	// UnknownStatus is used when a record has no status field.
	UnknownStatus = "Unknown"
)

// LinkBuilder produces deep links to order detail pages.
type LinkBuilder interface {
	DetailURL(orderType models.OrderType, id string, absolute bool) string
}

// Normalizer turns raw order records into cards.
type Normalizer struct {
	// Colors is nil when the built-in palette applies
	Colors *models.UserColorSettings

	// Links may be nil, cards then have no link
	Links LinkBuilder
}

// Card builds one card. It never fails: every field falls back to a default
// when the record lacks it.
func (n Normalizer) Card(orderType models.OrderType, data map[string]any) models.Card {
	id := stringify(firstPresent(data["pk"], data["id"]))
	rawStatus := extractStatus(data)
	assignee := extractAssignee(data)

	card := models.Card{
		ID:        id,
		Type:      orderType,
		Reference: extractReference(orderType, id, data),
		Title:     extractTitle(data),
		Status:    rawStatus,
		Stage:     status.ToStage(orderType, rawStatus),
		DueDate:   extractDueDate(data),
		Assignee:  assignee,
		Priority:  Priority(data["priority"]),
		Meta:      data,
	}

	if description, ok := data["description"].(string); ok {
		card.Description = description
	}

	var explicit map[string]string
	var palette []string
	if n.Colors != nil {
		explicit = n.Colors.ExplicitMap
		palette = n.Colors.Palette
	}
	card.UserColor = color.Resolve(assignee, explicit, palette)

	if n.Links != nil {
		card.Link = n.Links.DetailURL(orderType, id, true)
	}

	return card
}

func extractReference(orderType models.OrderType, id string, data map[string]any) string {
	if reference, ok := firstString(
		data["reference"],
		data["code"],
		data["order_reference"],
		data["customer_reference"],
		data["supplier_reference"],
	); ok {
		return reference
	}
	return fmt.Sprintf("%s #%s", orderType.Label(), id)
}

func extractTitle(data map[string]any) string {
	if title, ok := firstString(
		data["title"],
		data["description"],
		data["notes"],
		data["detail"],
		data["summary"],
	); ok {
		return title
	}
	return DefaultTitle
}

func extractStatus(data map[string]any) string {
	value := firstPresent(
		data["status_text"],
		data["status_label"],
		data["status_display"],
		data["status_name"],
		data["status"],
	)
	if value == nil {
		return UnknownStatus
	}
	return stringify(value)
}

func extractAssignee(data map[string]any) string {
	assignee, _ := firstString(
		field(data, "responsible_detail", "label"),
		field(data, "responsible_detail", "name"),
		field(data, "responsible_detail", "username"),
		data["responsible_name"],
		data["responsible"],
		field(data, "assigned_to_detail", "label"),
		field(data, "assigned_to_detail", "name"),
		data["assigned_to"],
		field(data, "owner_detail", "label"),
		field(data, "owner_detail", "name"),
		data["owner"],
		field(data, "user_detail", "label"),
		field(data, "user_detail", "name"),
	)
	return assignee
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// extractDueDate returns the first present date field. Unparseable values
// yield nil. Dates without a zone are UTC; numbers are Unix milliseconds.
func extractDueDate(data map[string]any) *time.Time {
	value := firstPresent(
		data["target_date"],
		data["due_date"],
		data["required_date"],
		data["expected_date"],
	)

	var parsed time.Time
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		ok := false
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				parsed, ok = t, true
				break
			}
		}
		if !ok {
			return nil
		}
	case time.Time:
		parsed = v
	case json.Number:
		ms, err := v.Int64()
		if err != nil || ms == 0 {
			return nil
		}
		parsed = time.UnixMilli(ms)
	case float64:
		if v == 0 {
			return nil
		}
		parsed = time.UnixMilli(int64(v))
	default:
		return nil
	}

	parsed = parsed.UTC()
	return &parsed
}

// Priority maps a numeric scale or a priority word to a Priority. It returns
// "" for anything it does not recognize.
func Priority(value any) models.Priority {
	switch v := value.(type) {
	case nil:
		return ""
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return ""
		}
		return priorityFromNumber(f)
	case float64:
		return priorityFromNumber(v)
	case int:
		return priorityFromNumber(float64(v))
	case int64:
		return priorityFromNumber(float64(v))
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "low":
			return models.PriorityLow
		case "medium", "normal", "standard":
			return models.PriorityMedium
		case "high":
			return models.PriorityHigh
		case "urgent", "critical", "highest", "rush":
			return models.PriorityUrgent
		}
	}
	return ""
}

func priorityFromNumber(f float64) models.Priority {
	switch {
	case f <= 1:
		return models.PriorityLow
	case f == 2:
		return models.PriorityMedium
	case f == 3:
		return models.PriorityHigh
	default:
		return models.PriorityUrgent
	}
}

// stringify renders a scalar field the way it appeared on the wire.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

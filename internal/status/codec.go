// Package status translates between the native status of each order type and
// the abstract board stages, in both directions.
package status

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/danielolaszy/orderboard/pkg/models"
)

// Definition describes a board stage for display.
type Definition struct {
	Stage       models.Stage
	Title       string
	Description string
}

// Definitions lists the stage definitions in enumeration order.
var Definitions = []Definition{
	{Stage: models.StageBacklog, Title: "Backlog", Description: "New or pending orders awaiting action"},
	{Stage: models.StageInProgress, Title: "In Progress", Description: "Active work currently underway"},
	{Stage: models.StageOnHold, Title: "On Hold", Description: "Orders blocked or paused for review"},
	{Stage: models.StageReview, Title: "Review", Description: "Receiving, QA, or closing checks required"},
	{Stage: models.StageDone, Title: "Done", Description: "Completed or closed orders"},
}

// DefinitionFor returns the definition of a stage. Unknown stages get their
// key as title.
func DefinitionFor(stage models.Stage) Definition {
	for _, def := range Definitions {
		if def.Stage == stage {
			return def
		}
	}
	return Definition{Stage: stage, Title: string(stage)}
}

// ParseStage resolves a stage key such as "in progress" or "done".
func ParseStage(value string) (models.Stage, error) {
	normalized := Normalize(value)
	for _, stage := range models.Stages {
		if string(stage) == normalized {
			return stage, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", value)
}

// mapping is the definition of one (order type, stage) cell.
type mapping struct {
	variants []string
	payload  models.StatusPayload
}

var definitions = map[models.OrderType]map[models.Stage]mapping{
	models.OrderTypeBuild: {
		models.StageBacklog:    {variants: []string{"PENDING", "PRE_PRODUCTION", "PLANNING"}, payload: models.StatusPayload{Label: "Pending", Code: 10}},
		models.StageInProgress: {variants: []string{"IN_PROGRESS", "PRODUCTION", "BUILDING"}, payload: models.StatusPayload{Label: "In production", Code: 20}},
		models.StageOnHold:     {variants: []string{"HOLD", "ON_HOLD", "PAUSED"}, payload: models.StatusPayload{Label: "On hold", Code: 40}},
		models.StageReview:     {variants: []string{"COMPLETE_PENDING", "AWAITING_COMPLETION", "READY_TO_COMPLETE"}, payload: models.StatusPayload{Label: "Awaiting completion", Code: 50}},
		models.StageDone:       {variants: []string{"COMPLETE", "COMPLETED", "FINISHED"}, payload: models.StatusPayload{Label: "Completed", Code: 60}},
	},
	models.OrderTypePurchase: {
		models.StageBacklog:    {variants: []string{"DRAFT", "PENDING", "PRE_ORDER"}, payload: models.StatusPayload{Label: "Pending", Code: 10}},
		models.StageInProgress: {variants: []string{"ORDERED", "PLACED", "ISSUED"}, payload: models.StatusPayload{Label: "Placed", Code: 20}},
		models.StageOnHold:     {variants: []string{"HOLD", "ON_HOLD", "DELAYED"}, payload: models.StatusPayload{Label: "On hold", Code: 30}},
		models.StageReview:     {variants: []string{"RECEIVING", "AWAITING_RECEIPT", "INSPECTION"}, payload: models.StatusPayload{Label: "Receiving", Code: 40}},
		models.StageDone:       {variants: []string{"RECEIVED", "COMPLETE", "CLOSED"}, payload: models.StatusPayload{Label: "Completed", Code: 50}},
	},
	models.OrderTypeSales: {
		models.StageBacklog:    {variants: []string{"PENDING", "QUOTED", "DRAFT"}, payload: models.StatusPayload{Label: "Pending", Code: 10}},
		models.StageInProgress: {variants: []string{"ALLOCATING", "IN_PROGRESS", "FULFILLING", "PICKING"}, payload: models.StatusPayload{Label: "Allocating", Code: 20}},
		models.StageOnHold:     {variants: []string{"HOLD", "ON_HOLD", "BLOCKED"}, payload: models.StatusPayload{Label: "On hold", Code: 30}},
		models.StageReview:     {variants: []string{"PACKING", "READY_TO_SHIP", "AWAITING_SHIPMENT"}, payload: models.StatusPayload{Label: "Packing", Code: 40}},
		models.StageDone:       {variants: []string{"SHIPPED", "COMPLETED", "CLOSED"}, payload: models.StatusPayload{Label: "Completed", Code: 50}},
	},
}

// entry is a validated table cell.
type entry struct {
	variants map[string]struct{}
	payload  models.StatusPayload
}

// table is indexed by order type, then by position in models.Stages.
type table map[models.OrderType][]entry

var statusTable = mustBuildTable(definitions)

func mustBuildTable(defs map[models.OrderType]map[models.Stage]mapping) table {
	t, err := buildTable(defs)
	if err != nil {
		panic(fmt.Sprintf("status: invalid mapping table: %v", err))
	}
	return t
}

// buildTable validates that every order type defines every stage and
// precomputes the variant sets. The normalized canonical label of a stage is
// recognized as one of its variants so that a written label reads back to the
// same stage.
func buildTable(defs map[models.OrderType]map[models.Stage]mapping) (table, error) {
	t := make(table, len(models.OrderTypes))
	for _, orderType := range models.OrderTypes {
		stages, ok := defs[orderType]
		if !ok {
			return nil, fmt.Errorf("order type %q has no mapping", orderType)
		}

		entries := make([]entry, len(models.Stages))
		for i, stage := range models.Stages {
			m, ok := stages[stage]
			if !ok {
				return nil, fmt.Errorf("order type %q is missing stage %s", orderType, stage)
			}

			variants := make(map[string]struct{}, len(m.variants)+1)
			for _, v := range m.variants {
				variants[Normalize(v)] = struct{}{}
			}
			variants[Normalize(m.payload.Label)] = struct{}{}

			entries[i] = entry{variants: variants, payload: m.payload}
		}
		t[orderType] = entries
	}
	return t, nil
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	disallowed = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// Normalize canonicalizes a native status for lookup: trimmed, internal
// whitespace collapsed to "_", characters outside [A-Z0-9_] removed and the
// result uppercased. Numbers are rendered in decimal form first and nil
// becomes "". Normalize is idempotent.
func Normalize(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case int32:
		s = strconv.FormatInt(int64(v), 10)
	default:
		s = fmt.Sprint(v)
	}

	s = whitespace.ReplaceAllString(strings.TrimSpace(s), "_")
	s = disallowed.ReplaceAllString(s, "")
	return strings.ToUpper(s)
}

// ToStage maps a native status of the given order type to a board stage.
// Variant strings are tried in stage order first, then the value coerced to a
// number is compared with each stage's status code. Anything unrecognized is
// BACKLOG.
func ToStage(orderType models.OrderType, native any) models.Stage {
	entries, ok := statusTable[orderType]
	if !ok {
		return models.StageBacklog
	}

	normalized := Normalize(native)
	if normalized != "" {
		for i, e := range entries {
			if _, ok := e.variants[normalized]; ok {
				return models.Stages[i]
			}
		}
	}

	if code, ok := toNumber(native); ok {
		for i, e := range entries {
			if float64(e.payload.Code) == code {
				return models.Stages[i]
			}
		}
	}

	return models.StageBacklog
}

// ToNative returns the canonical status to write when a card of the given
// order type is moved into stage.
func ToNative(orderType models.OrderType, stage models.Stage) models.StatusPayload {
	entries := statusTable[orderType]
	for i, s := range models.Stages {
		if s == stage && i < len(entries) {
			return entries[i].payload
		}
	}
	return models.StatusPayload{}
}

// toNumber coerces a raw status to a finite number. Empty strings do not
// coerce.
func toNumber(value any) (float64, bool) {
	var f float64
	switch v := value.(type) {
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case int32:
		f = float64(v)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

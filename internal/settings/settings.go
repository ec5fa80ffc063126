// Package settings decodes the loosely typed plugin settings bag.
package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielolaszy/orderboard/internal/logging"
	"github.com/danielolaszy/orderboard/pkg/models"
)

// Keys of the raw settings bag.
const (
	KeyEnableBuild    = "ENABLE_BUILD"
	KeyEnablePurchase = "ENABLE_PURCHASE"
	KeyEnableSales    = "ENABLE_SALES"
	KeyUserColorMap   = "USER_COLOR_MAP"
	KeyColorPalette   = "USER_COLOR_FALLBACK_PALETTE"
)

// Keys lists every recognized setting.
var Keys = []string{KeyEnableBuild, KeyEnablePurchase, KeyEnableSales, KeyUserColorMap, KeyColorPalette}

var (
	truthy = []string{"true", "1", "yes", "y", "on"}
	falsy  = []string{"false", "0", "no", "off", "n"}
)

// Decode reads Settings from raw. When raw carries a "settings" map that map
// is used instead. Decode never fails: unrecognized flags are enabled and
// malformed JSON values are logged and treated as empty.
func Decode(raw map[string]any) models.Settings {
	source := raw
	if nested, ok := raw["settings"].(map[string]any); ok {
		source = nested
	}

	explicit := decodeColorMap(source[KeyUserColorMap])
	palette := decodePalette(source[KeyColorPalette])

	s := models.Settings{
		EnableBuild:    CoerceBool(source[KeyEnableBuild], true),
		EnablePurchase: CoerceBool(source[KeyEnablePurchase], true),
		EnableSales:    CoerceBool(source[KeyEnableSales], true),
	}
	if len(explicit) > 0 || len(palette) > 0 {
		s.UserColors = &models.UserColorSettings{
			ExplicitMap: explicit,
			Palette:     palette,
		}
	}
	return s
}

// EnabledTypes returns the enabled order types in display order. If every
// type is disabled all of them are returned.
func EnabledTypes(s models.Settings) []models.OrderType {
	var result []models.OrderType
	if s.EnableBuild {
		result = append(result, models.OrderTypeBuild)
	}
	if s.EnablePurchase {
		result = append(result, models.OrderTypePurchase)
	}
	if s.EnableSales {
		result = append(result, models.OrderTypeSales)
	}
	if len(result) == 0 {
		return append([]models.OrderType(nil), models.OrderTypes...)
	}
	return result
}

// CoerceBool interprets booleans, numbers (zero is false) and the usual
// yes/no string spellings. Anything else yields fallback.
func CoerceBool(value any, fallback bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return fallback
		}
		return f != 0
	case string:
		normalized := strings.ToLower(strings.TrimSpace(v))
		if contains(truthy, normalized) {
			return true
		}
		if contains(falsy, normalized) {
			return false
		}
	}
	return fallback
}

func decodeColorMap(value any) map[string]string {
	result := map[string]string{}
	switch v := value.(type) {
	case nil:
	case map[string]string:
		for name, c := range v {
			result[name] = c
		}
	case map[string]any:
		for name, c := range v {
			if s, ok := c.(string); ok {
				result[name] = s
			}
		}
	case string:
		if err := parseJSON(v, &result); err != nil {
			logging.Warn("failed to parse plugin setting json value",
				"key", KeyUserColorMap,
				"error", err)
			return map[string]string{}
		}
	default:
		logging.Warn("ignoring plugin setting with unexpected type",
			"key", KeyUserColorMap,
			"type", fmt.Sprintf("%T", value))
	}
	if result == nil {
		result = map[string]string{}
	}
	return result
}

func decodePalette(value any) []string {
	var result []string
	switch v := value.(type) {
	case nil:
	case []string:
		result = append(result, v...)
	case []any:
		for _, c := range v {
			if s, ok := c.(string); ok {
				result = append(result, s)
			}
		}
	case string:
		if err := parseJSON(v, &result); err != nil {
			logging.Warn("failed to parse plugin setting json value",
				"key", KeyColorPalette,
				"error", err)
			return []string{}
		}
	default:
		logging.Warn("ignoring plugin setting with unexpected type",
			"key", KeyColorPalette,
			"type", fmt.Sprintf("%T", value))
	}
	if result == nil {
		result = []string{}
	}
	return result
}

// parseJSON decodes a JSON setting. A blank string decodes to nothing.
func parseJSON(input string, target any) error {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(input), target); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

package advisor

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseHistory decodes a JSON array of conversation turns. It always
// returns a usable history: when raw cannot be decoded, even after
// repair, the history is empty and err says why. Entries that are not
// objects are dropped.
func ParseHistory(raw string) (history []Turn, err error) {
	history = []Turn{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return history, nil
	}

	var items []any
	if decodeErr := json.UnmarshalFromString(raw, &items); decodeErr != nil {
		repaired, repairErr := jsonrepair.JSONRepair(raw)
		if repairErr != nil {
			return history, fmt.Errorf("history: %w", decodeErr)
		}
		items = nil
		if err := json.UnmarshalFromString(repaired, &items); err != nil {
			return history, fmt.Errorf("history: %w", decodeErr)
		}
	}

	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			history = append(history, Turn(m))
		}
	}
	return history, nil
}

package utils

import (
	"encoding/json"
	"fmt"
)

// ParseSymbolMap decodes an exchange's symbol map (universal symbol -> local symbol).
func ParseSymbolMap(raw []byte) (map[string]string, error) {
	var symbolMap map[string]string
	if err := json.Unmarshal(raw, &symbolMap); err != nil {
		return nil, fmt.Errorf("fail to unmarshal symbol map: %w", err)
	}
	return symbolMap, nil
}

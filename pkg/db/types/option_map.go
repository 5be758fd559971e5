package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// OptionMap stores a variant's flexible option map as a JSON text column.
type OptionMap map[string]string

// Value marshals the map for storage; nil maps persist as SQL NULL so legacy
// flat variants stay distinguishable from empty option maps.
func (m OptionMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("option map: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the stored JSON text.
func (m *OptionMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("option map: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(raw, m)
}

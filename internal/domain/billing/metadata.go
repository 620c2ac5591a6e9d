package billing

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Metadata is an opaque key-value map attached to line items and audit
// entries, stored as JSONB. It implements GORM's Scanner/Valuer.
type Metadata map[string]string

// Value implements driver.Valuer for JSONB storage
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading from JSONB
func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan Metadata: unsupported type")
	}

	if len(bytes) == 0 {
		*m = Metadata{}
		return nil
	}

	return json.Unmarshal(bytes, m)
}

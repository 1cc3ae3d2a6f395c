package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap marshals s with its bson tags and decodes it back into a map, so
// `omitempty` decides which keys a partial update carries.
func ToMap(s interface{}) (map[string]interface{}, error) {
	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}

	out := map[string]interface{}{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return out, nil
}

// FromMap decodes a bson map into out.
func FromMap(m map[string]interface{}, out interface{}) error {
	raw, err := bson.Marshal(m)
	if err != nil {
		return fmt.Errorf("bson marshal failed: %w", err)
	}
	if err := bson.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return nil
}

package utility

import (
	"fmt"

	"zeniverse_api/internal/common"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FormatBytes renders a byte count as B, KB, MB, ...
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ParseObjectID converts a hex id, returning common.ErrInvalidID for malformed input.
func ParseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, common.WithDetails(common.ErrInvalidID, id)
	}
	return oid, nil
}

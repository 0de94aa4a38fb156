package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GenerateETag derives a stable ETag from a document id and its last update
// time, so list and get endpoints can answer 304s cheaply.
func GenerateETag(id primitive.ObjectID, updatedAt time.Time) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s-%d", id.Hex(), updatedAt.UnixNano())))
	return `"` + hex.EncodeToString(sum[:]) + `"`
}

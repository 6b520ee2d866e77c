package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a 32-char hex id, friendly to varchar(36) columns.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

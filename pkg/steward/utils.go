package steward

import (
	"os"

	"github.com/google/uuid"
)

// UniqueName builds a name unique to this process for ephemeral declarations,
// prefix.hostname.uuid. The hostname segment is skipped when unavailable.
func UniqueName(prefix string) string {

	name := prefix

	hostName, err := os.Hostname()
	if err == nil && hostName != "" {
		name = name + "." + hostName
	}

	return name + "." + uuid.NewString()
}

package diagram

import (
	"fmt"
	"math/rand"
	"time"
)

// NewID returns an id unique within an editing session: wall-clock millis
// plus a short random suffix. No cross-session guarantees are needed for
// element ids; stored diagrams get real UUIDs on import.
func NewID(prefix string) string {
	return fmt.Sprintf("%s-%d-%08x", prefix, time.Now().UnixMilli(), rand.Int63())
}

package edit

import (
	"fmt"
	"strconv"
	"time"
)

// overridable for deterministic tests
var nowFunc = func() time.Time { return time.Now().UTC() }

func parseSize(value string) (float64, error) {
	size, err := strconv.ParseFloat(value, 64)
	if err != nil || size <= 0 {
		return 0, fmt.Errorf("invalid size %q", value)
	}
	return size, nil
}

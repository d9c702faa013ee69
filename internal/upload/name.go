package upload

import (
	"strconv"
	"time"
)

// Clock supplies the current time for upload naming. Tests pass a fixed clock.
type Clock func() time.Time

// GenerateName returns "<unix milliseconds><ext>", e.g. "1700000000123.png".
// Two uploads in the same millisecond get the same name; the later one overwrites the earlier.
func GenerateName(ext string, clock Clock) string {
	if clock == nil {
		clock = time.Now
	}
	return strconv.FormatInt(clock().UnixMilli(), 10) + ext
}

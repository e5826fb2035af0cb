package connmgr

import (
	"fmt"
	"strconv"
	"time"
)

const (
	timestampLayout       = "2006-01-02 15:04:05"
	timestampLayoutMillis = "2006-01-02 15:04:05.000"
)

// formatScalar renders a driver value as display text. NULL becomes the
// empty string.
func formatScalar(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		if v.Nanosecond()/int(time.Millisecond) == 0 {
			return v.Format(timestampLayout)
		}
		return v.Format(timestampLayoutMillis)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(value)
}

package util

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MustParseUint converts a string to an unsigned integer, returning 0 on failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// FlexibleInt accepts a JSON number or a numeric string. Anything that does
// not parse decodes to zero, letting callers apply their own default.
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleInt(n)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(str)); err == nil {
			*f = FlexibleInt(n)
			return nil
		}
	}

	*f = 0
	return nil
}

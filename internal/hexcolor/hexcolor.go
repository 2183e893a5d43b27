// Package hexcolor validates the color strings accepted from users.
package hexcolor

import (
	"fmt"
	"strconv"
	"strings"
)

// Normalize accepts #RGB or #RRGGBB (the # is optional) and returns the
// upper-case #RRGGBB form.
func Normalize(s string) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(v) == 3 {
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	}
	if len(v) != 6 {
		return "", fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	if _, err := strconv.ParseUint(v, 16, 32); err != nil {
		return "", fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	return "#" + strings.ToUpper(v), nil
}

package validators

import (
	"net/http"
	"strconv"
	"strings"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, FieldError(key, "must be numeric")
	}
	if value < min || value > max {
		return 0, FieldError(key, "is out of range")
	}
	return value, nil
}

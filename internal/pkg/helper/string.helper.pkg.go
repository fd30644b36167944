package helper

import (
	"encoding/json"
	"strconv"
	"strings"
)

func StringToStruct[I any](payload string) (result *I, err error) {
	err = json.Unmarshal([]byte(payload), &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func StringToUint64(payload string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(payload), 10, 64)
}

// BearerToken strips the scheme from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

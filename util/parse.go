package util

import (
	"strconv"
	"time"
)

func ParseTime(val string) (time.Time, error) {
	return time.Parse(time.RFC3339, val)
}

func ParseId(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}

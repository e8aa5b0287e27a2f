package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration extends time.ParseDuration to support days (d) and weeks (w).
func ParseDuration(s string) (time.Duration, error) {
	if strings.HasSuffix(s, "w") {
		weeksStr := strings.TrimSuffix(s, "w")
		weeks, err := strconv.Atoi(weeksStr)
		if err != nil {
			return 0, fmt.Errorf("invalid week value: %s", weeksStr)
		}
		return time.Duration(weeks) * 7 * 24 * time.Hour, nil
	}
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := strconv.Atoi(daysStr)
		if err != nil {
			return 0, fmt.Errorf("invalid day value: %s", daysStr)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

// PrettyDuration renders a duration as "2 weeks, 3 days, 1 hour".
func PrettyDuration(d time.Duration) string {
	seconds := int64(d.Seconds())
	weeks, remainder := seconds/604800, seconds%604800
	days, remainder := remainder/86400, remainder%86400
	hours, remainder := remainder/3600, remainder%3600
	minutes := remainder / 60

	var units []string
	appendUnit := func(value int64, singular string) {
		if value == 1 {
			units = append(units, "1 "+singular)
		} else if value > 1 {
			units = append(units, fmt.Sprintf("%d %ss", value, singular))
		}
	}
	appendUnit(weeks, "week")
	appendUnit(days, "day")
	appendUnit(hours, "hour")
	appendUnit(minutes, "minute")

	if len(units) == 0 {
		return "a few seconds"
	}
	return strings.Join(units, ", ")
}

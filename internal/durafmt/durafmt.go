// Package durafmt formats track lengths for display.
package durafmt

import (
	"fmt"
	"strings"
	"time"
)

var durationChunks = []time.Duration{time.Hour, time.Minute, time.Second}

// Format formats d as MM:SS, or HH:MM:SS when it spans an hour.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	words := make([]string, 0, len(durationChunks))
	for i, section := range durationChunks {
		var n int
		n, d = divide(d, section)
		if i == 0 && n < 1 {
			continue
		}
		words = append(words, fmt.Sprintf("%02d", n))
	}
	return strings.Join(words, ":")
}

// Seconds formats a whole number of seconds.
func Seconds(s int) string {
	return Format(time.Duration(s) * time.Second)
}

func divide(d, div time.Duration) (int, time.Duration) {
	n := int(d / div)
	return n, d - time.Duration(n)*div
}

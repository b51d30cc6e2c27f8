package utils

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatSize formats a byte count with a 1024 base and at most two decimals,
// e.g. "0 Bytes", "1.5 KB", "1.46 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + sizeUnits[i]
}

// FormatDuration formats a duration as hh:mm:ss
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatPercent rounds a progress value to a whole percentage
func FormatPercent(progress float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(progress)))
}

// FormatCount formats a counter with thousands separators
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// FormatAge formats a timestamp relative to now, e.g. "3 minutes ago"
func FormatAge(t time.Time) string {
	return humanize.Time(t)
}

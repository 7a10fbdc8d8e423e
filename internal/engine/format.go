package engine

import (
	"fmt"
	"math"
)

// FormatHMS renders seconds as HH:MM:SS, flooring to whole seconds.
func FormatHMS(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// FormatHM renders seconds as HH:MM, flooring to whole minutes.
func FormatHM(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/3600, (seconds%3600)/60)
}

// FormatHours renders decimal hours as HH:MM.
func FormatHours(hours float64) string {
	return FormatHM(int64(math.Round(hours * 3600)))
}

// Hours converts seconds to decimal hours.
func Hours(seconds int64) float64 {
	return float64(seconds) / 3600.0
}

// Round1 rounds to one decimal place. Used for percentages.
func Round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Round2 rounds to two decimal places. Used for hour values in sensor
// payloads.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

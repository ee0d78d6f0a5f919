package pr

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// LiftMovements are scored by weight: heavier is better.
var LiftMovements = []string{
	"Back Squat",
	"Front Squat",
	"Overhead Squat",
	"Deadlift",
	"Clean & Jerk",
	"Snatch",
	"Bench Press",
	"Overhead Press",
	"Clean",
	"Push Jerk",
	"Thruster",
}

// BenchmarkWods are scored by elapsed seconds: faster is better.
var BenchmarkWods = []string{
	"Fran",
	"Murph",
	"Grace",
	"Diane",
	"Helen",
	"Jackie",
	"Annie",
	"Isabel",
	"Karen",
	"Fight Gone Bad",
}

// AllMovements lists lifts followed by benchmarks.
func AllMovements() []string {
	return slices.Concat(LiftMovements, BenchmarkWods)
}

// IsLift reports whether movement is ranked by weight. Anything else,
// including names outside both tables, is ranked like a benchmark.
func IsLift(movement string) bool {
	return slices.Contains(LiftMovements, movement)
}

// Unit is "kg" for lifts and "초" (seconds) for benchmarks.
func Unit(movement string) string {
	if IsLift(movement) {
		return "kg"
	}
	return "초"
}

// IsBetter reports whether candidate beats existing for movement.
func IsBetter(movement string, candidate, existing float64) bool {
	if IsLift(movement) {
		return candidate > existing
	}
	return candidate < existing
}

// FormatSeconds renders seconds as m:ss, e.g. 630 -> "10:30".
func FormatSeconds(total float64) string {
	minutes := int(math.Floor(total / 60))
	seconds := int(math.Round(math.Mod(total, 60)))
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// ParseTimeInput parses "m:ss" into seconds, e.g. "10:30" -> 630.
func ParseTimeInput(input string) (int, error) {
	parts := strings.Split(input, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("time %q: want m:ss", input)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("time %q: minutes: %w", input, err)
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("time %q: seconds: %w", input, err)
	}
	if minutes < 0 || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("time %q: out of range", input)
	}
	return minutes*60 + seconds, nil
}

// DisplayValue renders a record value the way notifications show it.
func DisplayValue(movement string, value float64, unit string) string {
	if IsLift(movement) {
		return strconv.FormatFloat(value, 'f', -1, 64) + unit
	}
	return FormatSeconds(value)
}

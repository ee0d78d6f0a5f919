package wod

import (
	"cmp"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// amrapRoundWeight encodes "rounds+reps" as rounds*1000+reps. Scores with
// 1000 or more reps in a partial round overflow into the next round; stored
// leaderboards depend on this exact encoding.
const amrapRoundWeight = 1000

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
var leadingInteger = regexp.MustCompile(`^[+-]?\d+`)

// Compare orders two raw scores of the same WOD type. It returns only the
// sign of the magnitude difference (-1, 0 or 1), never the difference
// itself; -1 ranks a before b. Malformed scores never fail: they count as zero.
func Compare(a, b string, t Type) int {
	av, bv := Magnitude(a, t), Magnitude(b, t)
	switch t.Direction() {
	case Ascending:
		return cmp.Compare(av, bv)
	case Descending:
		return cmp.Compare(bv, av)
	}
	return 0
}

// Magnitude converts a raw score into the number used for ranking.
func Magnitude(score string, t Type) float64 {
	switch t {
	case AMRAP:
		parts := strings.Split(score, "+")
		rounds := strictNumber(parts[0])
		var reps float64
		if len(parts) > 1 {
			reps = strictNumber(parts[1])
		}
		return rounds*amrapRoundWeight + reps
	case ForTime, EMOM, OneRM, Tabata, Other:
		return leadingFloat(score)
	}
	return leadingFloat(score)
}

// Format renders a raw score for display.
func Format(score string, t Type) string {
	switch t {
	case ForTime:
		return formatElapsed(score)
	case AMRAP:
		return score + " rds+reps"
	case OneRM:
		return score + " kg"
	case EMOM, Tabata, Other:
		return score
	}
	return score
}

// Placeholder returns the input hint for entering a score of type t.
func Placeholder(t Type) string {
	switch t {
	case ForTime:
		return "완료 시간 (초, 예: 600)"
	case AMRAP:
		return "라운드+렙 (예: 5+12)"
	case OneRM:
		return "무게 (kg, 예: 100)"
	case EMOM:
		return "완료 라운드 (예: 20)"
	case Tabata:
		return "총 렙 수 (예: 80)"
	case Other:
		return "점수 입력"
	}
	return "점수 입력"
}

func formatElapsed(score string) string {
	m := leadingInteger.FindString(strings.TrimSpace(score))
	seconds, err := strconv.Atoi(m)
	if err != nil {
		return score
	}
	minutes := seconds / 60
	rem := seconds % 60
	if rem < 0 {
		minutes--
		rem += 60
	}
	return strconv.Itoa(minutes) + ":" + pad2(rem)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// leadingFloat parses the longest numeric prefix, so "12.5kg" is 12.5.
func leadingFloat(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	return finite(strconv.ParseFloat(m, 64))
}

// strictNumber parses a whole field; anything unparseable is zero.
func strictNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return finite(strconv.ParseFloat(s, 64))
}

func finite(v float64, err error) float64 {
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

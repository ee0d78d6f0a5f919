package generator

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/claude/wodboard/internal/wod"
)

var (
	// ErrEmptyPool means the requested categories contain no movements.
	ErrEmptyPool = errors.New("no movements found in the selected categories")
	// ErrUnsupportedType means the config asks for a type the generator cannot build.
	ErrUnsupportedType = errors.New("generator supports FOR_TIME, AMRAP and EMOM only")
	// ErrInvalidConfig means duration or movement count is not positive.
	ErrInvalidConfig = errors.New("duration and movement count must be positive")
)

// Source supplies random integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Config is what an admin picks in the generator form.
type Config struct {
	Type            wod.Type   `json:"type"`
	DurationMinutes int        `json:"duration_minutes"`
	Categories      []Category `json:"categories"`
	MovementCount   int        `json:"movement_count"`
}

// Wod is a generated workout. Nothing is persisted; callers decide whether to
// store it.
type Wod struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        wod.Type `json:"type"`
	Movements   []string `json:"movements"`
}

// Generator assembles workouts from the movement library.
type Generator struct {
	src Source
}

// New returns a Generator drawing from src. A nil src uses the shared
// math/rand/v2 source, which is safe for concurrent use.
func New(src Source) *Generator {
	if src == nil {
		src = globalSource{}
	}
	return &Generator{src: src}
}

// Generate picks movements from the configured categories and builds the
// workout description for the configured type.
func (g *Generator) Generate(cfg Config) (*Wod, error) {
	switch cfg.Type {
	case wod.ForTime, wod.AMRAP, wod.EMOM:
	case wod.OneRM, wod.Tabata, wod.Other:
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedType, cfg.Type)
	default:
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedType, cfg.Type)
	}
	if cfg.DurationMinutes < 1 || cfg.MovementCount < 1 {
		return nil, ErrInvalidConfig
	}

	movements := pool(cfg.Categories)
	if len(movements) == 0 {
		return nil, ErrEmptyPool
	}
	picked := g.pick(movements, cfg.MovementCount)

	switch cfg.Type {
	case wod.ForTime:
		return g.forTime(picked, cfg.DurationMinutes), nil
	case wod.AMRAP:
		return amrap(picked, cfg.DurationMinutes), nil
	case wod.EMOM:
		return emom(picked, cfg.DurationMinutes), nil
	case wod.OneRM, wod.Tabata, wod.Other:
	}
	return nil, ErrUnsupportedType
}

// pick draws count distinct movements without replacement. The pool slice is
// freshly built per call, so shuffling it in place is safe.
func (g *Generator) pick(movements []Movement, count int) []Movement {
	n := min(count, len(movements))
	for i := range n {
		j := i + g.src.IntN(len(movements)-i)
		movements[i], movements[j] = movements[j], movements[i]
	}
	return movements[:n]
}

var roundChoices = []int{3, 4, 5}

func (g *Generator) forTime(movements []Movement, timeCap int) *Wod {
	names := movementNames(movements)

	if len(movements) == 2 {
		lines := append([]string{
			fmt.Sprintf("For Time (Time cap: %dmin)", timeCap),
			"21-15-9",
		}, names...)
		return &Wod{
			Title:       "For Time",
			Description: strings.Join(lines, "\n"),
			Type:        wod.ForTime,
			Movements:   names,
		}
	}

	rounds := roundChoices[g.src.IntN(len(roundChoices))]
	lines := []string{fmt.Sprintf("%d Rounds For Time (Time cap: %dmin)", rounds, timeCap)}
	for _, m := range movements {
		lines = append(lines, "  "+render(m, m.Heavy))
	}
	return &Wod{
		Title:       fmt.Sprintf("%d Rounds For Time", rounds),
		Description: strings.Join(lines, "\n"),
		Type:        wod.ForTime,
		Movements:   names,
	}
}

func amrap(movements []Movement, minutes int) *Wod {
	lines := []string{fmt.Sprintf("AMRAP %dmin", minutes)}
	for _, m := range movements {
		lines = append(lines, "  "+render(m, m.Light))
	}
	return &Wod{
		Title:       fmt.Sprintf("AMRAP %d", minutes),
		Description: strings.Join(lines, "\n"),
		Type:        wod.AMRAP,
		Movements:   movementNames(movements),
	}
}

// emom fits the duration to a whole number of passes over the stations. At
// least one pass is scheduled even when that exceeds the requested minutes.
func emom(movements []Movement, totalMinutes int) *Wod {
	stations := len(movements)
	rounds := max(1, totalMinutes/stations)
	actual := rounds * stations

	var lines []string
	if stations == 2 {
		lines = []string{
			fmt.Sprintf("EMOM %dmin", actual),
			"홀수 분: " + render(movements[0], movements[0].Light),
			"짝수 분: " + render(movements[1], movements[1].Light),
		}
	} else {
		lines = []string{fmt.Sprintf("EMOM %dmin (%d분 구성 × %d라운드)", actual, stations, rounds)}
		for i, m := range movements {
			lines = append(lines, fmt.Sprintf("  %d분: %s", i+1, render(m, m.Light)))
		}
	}

	return &Wod{
		Title:       fmt.Sprintf("EMOM %d", actual),
		Description: strings.Join(lines, "\n"),
		Type:        wod.EMOM,
		Movements:   movementNames(movements),
	}
}

// render prints distance work as "Row 500m" and rep work as "10 Deadlift".
func render(m Movement, target int) string {
	if m.Cardio {
		return fmt.Sprintf("%s %d%s", m.Name, target, m.Unit)
	}
	return fmt.Sprintf("%d %s", target, m.Name)
}

func movementNames(movements []Movement) []string {
	names := make([]string, len(movements))
	for i, m := range movements {
		names[i] = m.Name
	}
	return names
}

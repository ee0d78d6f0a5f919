package generator

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/claude/wodboard/internal/wod"
)

// seqSource replays a fixed sequence so selections are predictable.
type seqSource struct {
	vals []int
	i    int
}

func (s *seqSource) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func zeros() *seqSource { return &seqSource{vals: []int{0}} }

func mustGenerate(t *testing.T, g *Generator, cfg Config) *Wod {
	t.Helper()
	w, err := g.Generate(cfg)
	if err != nil {
		t.Fatalf("Generate(%+v): %v", cfg, err)
	}
	return w
}

// TestGenerateSelectsDistinctFromCategory verifies a 3-movement request from
// a 6-movement category yields 3 distinct names from that category.
func TestGenerateSelectsDistinctFromCategory(t *testing.T) {
	catalog := movementNames(Movements(Kettlebell))
	if len(catalog) != 6 {
		t.Fatalf("kettlebell catalog has %d movements, want 6", len(catalog))
	}

	g := New(rand.New(rand.NewPCG(7, 11)))
	for range 200 {
		w := mustGenerate(t, g, Config{Type: wod.AMRAP, DurationMinutes: 12, Categories: []Category{Kettlebell}, MovementCount: 3})
		if len(w.Movements) != 3 {
			t.Fatalf("got %d movements, want 3", len(w.Movements))
		}
		seen := map[string]bool{}
		for _, name := range w.Movements {
			if !slices.Contains(catalog, name) {
				t.Errorf("movement %q not in kettlebell catalog", name)
			}
			if seen[name] {
				t.Errorf("movement %q selected twice in %v", name, w.Movements)
			}
			seen[name] = true
		}
	}
}

// TestGenerateDeterministicSelection verifies the injected source fully
// determines which movements are picked and in what order.
func TestGenerateDeterministicSelection(t *testing.T) {
	g := New(&seqSource{vals: []int{2, 0}})
	w := mustGenerate(t, g, Config{Type: wod.AMRAP, DurationMinutes: 10, Categories: []Category{Kettlebell}, MovementCount: 2})

	if want := []string{"KB Snatch", "KB Clean"}; !slices.Equal(w.Movements, want) {
		t.Errorf("movements = %v, want %v", w.Movements, want)
	}
}

// TestGenerateEmptyPool verifies an empty category set is an error rather
// than an empty workout.
func TestGenerateEmptyPool(t *testing.T) {
	g := New(zeros())
	for _, cats := range [][]Category{nil, {}, {"요가"}} {
		_, err := g.Generate(Config{Type: wod.ForTime, DurationMinutes: 10, Categories: cats, MovementCount: 3})
		if !errors.Is(err, ErrEmptyPool) {
			t.Errorf("categories %v: err = %v, want ErrEmptyPool", cats, err)
		}
	}
}

// TestGenerateUndersizedPool verifies asking for more movements than exist
// returns the whole pool without duplicates.
func TestGenerateUndersizedPool(t *testing.T) {
	g := New(rand.New(rand.NewPCG(1, 2)))
	w := mustGenerate(t, g, Config{Type: wod.AMRAP, DurationMinutes: 20, Categories: []Category{Conditioning}, MovementCount: 10})

	if len(w.Movements) != 6 {
		t.Fatalf("got %d movements, want the full pool of 6", len(w.Movements))
	}
	got := slices.Clone(w.Movements)
	want := movementNames(Movements(Conditioning))
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("movements = %v, want %v", got, want)
	}
}

// TestGenerateDuplicateCategories verifies a repeated category does not let
// the same movement be drawn twice.
func TestGenerateDuplicateCategories(t *testing.T) {
	g := New(rand.New(rand.NewPCG(3, 4)))
	w := mustGenerate(t, g, Config{Type: wod.AMRAP, DurationMinutes: 20, Categories: []Category{Dumbbell, Dumbbell}, MovementCount: 10})
	if len(w.Movements) != 6 {
		t.Errorf("got %d movements, want 6", len(w.Movements))
	}
}

// TestGenerateForTimeClassic verifies two movements produce the 21-15-9 ladder.
func TestGenerateForTimeClassic(t *testing.T) {
	w := mustGenerate(t, New(zeros()), Config{Type: wod.ForTime, DurationMinutes: 12, Categories: []Category{Conditioning}, MovementCount: 2})

	if w.Title != "For Time" {
		t.Errorf("title = %q, want %q", w.Title, "For Time")
	}
	want := "For Time (Time cap: 12min)\n21-15-9\nRun\nRow"
	if w.Description != want {
		t.Errorf("description = %q, want %q", w.Description, want)
	}
	if w.Type != wod.ForTime {
		t.Errorf("type = %s, want FOR_TIME", w.Type)
	}
}

// TestGenerateForTimeRounds verifies three or more movements use heavy
// targets under a 3, 4 or 5 round scheme.
func TestGenerateForTimeRounds(t *testing.T) {
	w := mustGenerate(t, New(zeros()), Config{Type: wod.ForTime, DurationMinutes: 15, Categories: []Category{Weightlifting}, MovementCount: 3})

	if w.Title != "3 Rounds For Time" {
		t.Errorf("title = %q, want %q", w.Title, "3 Rounds For Time")
	}
	want := "3 Rounds For Time (Time cap: 15min)\n  10 Deadlift\n  10 Back Squat\n  5 Front Squat"
	if w.Description != want {
		t.Errorf("description = %q, want %q", w.Description, want)
	}

	g := New(rand.New(rand.NewPCG(5, 6)))
	seen := map[string]bool{}
	for range 300 {
		w := mustGenerate(t, g, Config{Type: wod.ForTime, DurationMinutes: 20, Categories: []Category{Gymnastics, Dumbbell}, MovementCount: 4})
		switch w.Title {
		case "3 Rounds For Time", "4 Rounds For Time", "5 Rounds For Time":
			seen[w.Title] = true
		default:
			t.Fatalf("unexpected title %q", w.Title)
		}
	}
	if len(seen) != 3 {
		t.Errorf("round counts seen = %v, want all of 3, 4 and 5", seen)
	}
}

// TestGenerateAmrap verifies AMRAP lines use light targets and cardio units.
func TestGenerateAmrap(t *testing.T) {
	w := mustGenerate(t, New(zeros()), Config{Type: wod.AMRAP, DurationMinutes: 20, Categories: []Category{Conditioning}, MovementCount: 3})

	if w.Title != "AMRAP 20" {
		t.Errorf("title = %q, want %q", w.Title, "AMRAP 20")
	}
	want := "AMRAP 20min\n  Run 400m\n  Row 500m\n  Ski Erg 500m"
	if w.Description != want {
		t.Errorf("description = %q, want %q", w.Description, want)
	}
}

// TestGenerateEmomAlternating verifies two stations become odd/even minutes.
func TestGenerateEmomAlternating(t *testing.T) {
	w := mustGenerate(t, New(zeros()), Config{Type: wod.EMOM, DurationMinutes: 20, Categories: []Category{Conditioning}, MovementCount: 2})

	if w.Title != "EMOM 20" {
		t.Errorf("title = %q, want %q", w.Title, "EMOM 20")
	}
	want := "EMOM 20min\n홀수 분: Run 400m\n짝수 분: Row 500m"
	if w.Description != want {
		t.Errorf("description = %q, want %q", w.Description, want)
	}
}

// TestGenerateEmomStations verifies three stations over 9 minutes give
// exactly 3 rounds.
func TestGenerateEmomStations(t *testing.T) {
	w := mustGenerate(t, New(zeros()), Config{Type: wod.EMOM, DurationMinutes: 9, Categories: []Category{Kettlebell}, MovementCount: 3})

	if w.Title != "EMOM 9" {
		t.Errorf("title = %q, want %q", w.Title, "EMOM 9")
	}
	want := "EMOM 9min (3분 구성 × 3라운드)\n  1분: 20 KB Swing\n  2분: 10 KB Clean\n  3분: 10 KB Snatch"
	if w.Description != want {
		t.Errorf("description = %q, want %q", w.Description, want)
	}
}

// TestGenerateEmomClampsToOnePass verifies a duration shorter than the
// station count still schedules one full pass.
func TestGenerateEmomClampsToOnePass(t *testing.T) {
	w := mustGenerate(t, New(zeros()), Config{Type: wod.EMOM, DurationMinutes: 3, Categories: []Category{Dumbbell}, MovementCount: 4})

	if w.Title != "EMOM 4" {
		t.Errorf("title = %q, want %q", w.Title, "EMOM 4")
	}
	if !strings.HasPrefix(w.Description, "EMOM 4min (4분 구성 × 1라운드)") {
		t.Errorf("description = %q", w.Description)
	}

	w = mustGenerate(t, New(zeros()), Config{Type: wod.EMOM, DurationMinutes: 10, Categories: []Category{Dumbbell}, MovementCount: 3})
	if w.Title != "EMOM 9" {
		t.Errorf("title = %q, want %q (rounded down to whole passes)", w.Title, "EMOM 9")
	}
}

// TestGenerateRejectsConfig verifies unsupported types and non-positive sizes.
func TestGenerateRejectsConfig(t *testing.T) {
	g := New(zeros())
	cats := []Category{Gymnastics}

	if _, err := g.Generate(Config{Type: wod.OneRM, DurationMinutes: 10, Categories: cats, MovementCount: 2}); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("ONE_RM: err = %v, want ErrUnsupportedType", err)
	}
	if _, err := g.Generate(Config{Type: "", DurationMinutes: 10, Categories: cats, MovementCount: 2}); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("empty type: err = %v, want ErrUnsupportedType", err)
	}
	if _, err := g.Generate(Config{Type: wod.EMOM, DurationMinutes: 10, Categories: cats, MovementCount: 0}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero count: err = %v, want ErrInvalidConfig", err)
	}
	if _, err := g.Generate(Config{Type: wod.AMRAP, DurationMinutes: 0, Categories: cats, MovementCount: 2}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("zero duration: err = %v, want ErrInvalidConfig", err)
	}
}

// TestRender verifies distance and rep formatting.
func TestRender(t *testing.T) {
	if got := render(meters("Row", 500, 500), 500); got != "Row 500m" {
		t.Errorf("render(Row) = %q, want %q", got, "Row 500m")
	}
	if got := render(reps("Thruster", 15, 9), 9); got != "9 Thruster" {
		t.Errorf("render(Thruster) = %q, want %q", got, "9 Thruster")
	}
}

// TestCatalogIntegrity verifies every category is non-empty, names are unique
// per category and only cardio movements carry a unit.
func TestCatalogIntegrity(t *testing.T) {
	for _, c := range Categories {
		ms := Movements(c)
		if len(ms) == 0 {
			t.Errorf("category %s is empty", c)
		}
		seen := map[string]bool{}
		for _, m := range ms {
			if seen[m.Name] {
				t.Errorf("%s: duplicate movement %q", c, m.Name)
			}
			seen[m.Name] = true
			if m.Cardio != (m.Unit != "") {
				t.Errorf("%s: %q cardio=%v unit=%q", c, m.Name, m.Cardio, m.Unit)
			}
			if m.Light <= 0 || m.Heavy <= 0 {
				t.Errorf("%s: %q has non-positive targets", c, m.Name)
			}
		}
		if !c.Valid() {
			t.Errorf("category %s reports invalid", c)
		}
	}
	if Category("요가").Valid() {
		t.Error("unknown category reported valid")
	}
}

// TestMovementsReturnsCopy verifies callers cannot mutate the library.
func TestMovementsReturnsCopy(t *testing.T) {
	ms := Movements(Weightlifting)
	ms[0].Name = "changed"
	if Movements(Weightlifting)[0].Name != "Deadlift" {
		t.Error("library was mutated through Movements")
	}
}

// TestMovementNames verifies the preview list spans categories in order.
func TestMovementNames(t *testing.T) {
	names := MovementNames([]Category{Kettlebell, Dumbbell, Kettlebell})
	if len(names) != 12 {
		t.Fatalf("got %d names, want 12", len(names))
	}
	if names[0] != "KB Swing" || names[6] != "DB Snatch" {
		t.Errorf("names = %v", names)
	}
}

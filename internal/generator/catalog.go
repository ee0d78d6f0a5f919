package generator

// Category groups movements in the library by modality.
type Category string

const (
	Weightlifting Category = "역도"
	Gymnastics    Category = "체조"
	Conditioning  Category = "컨디셔닝"
	Kettlebell    Category = "케틀벨"
	Dumbbell      Category = "덤벨"
)

// Categories lists every category in display order.
var Categories = []Category{Weightlifting, Gymnastics, Conditioning, Kettlebell, Dumbbell}

// Label is the form label for the category.
func (c Category) Label() string {
	switch c {
	case Weightlifting:
		return "역도 (Weightlifting)"
	case Gymnastics:
		return "체조 (Gymnastics)"
	case Conditioning, Kettlebell, Dumbbell:
		return string(c)
	}
	return string(c)
}

// Valid reports whether c is one of the library categories.
func (c Category) Valid() bool {
	_, ok := library[c]
	return ok
}

// Movement is a library entry. Light is the target for high-volume formats
// (AMRAP, EMOM), Heavy for low-volume ones (rounds for time). Cardio movements
// are distances in Unit rather than rep counts.
type Movement struct {
	Name   string `json:"name"`
	Light  int    `json:"light"`
	Heavy  int    `json:"heavy"`
	Cardio bool   `json:"cardio"`
	Unit   string `json:"unit,omitempty"`
}

func reps(name string, light, heavy int) Movement {
	return Movement{Name: name, Light: light, Heavy: heavy}
}

func meters(name string, light, heavy int) Movement {
	return Movement{Name: name, Light: light, Heavy: heavy, Cardio: true, Unit: "m"}
}

// library is never written after initialisation; accessors hand out copies.
var library = map[Category][]Movement{
	Weightlifting: {
		reps("Deadlift", 15, 10),
		reps("Back Squat", 15, 10),
		reps("Front Squat", 10, 5),
		reps("Power Clean", 10, 5),
		reps("Hang Power Clean", 10, 5),
		reps("Power Snatch", 10, 5),
		reps("Hang Power Snatch", 10, 5),
		reps("Clean & Jerk", 10, 5),
		reps("Thruster", 15, 9),
		reps("Shoulder Press", 10, 5),
		reps("Push Press", 15, 10),
		reps("Push Jerk", 10, 5),
		reps("Sumo Deadlift High Pull", 15, 10),
	},
	Gymnastics: {
		reps("Pull-ups", 10, 5),
		reps("Chest-to-bar Pull-ups", 7, 3),
		reps("Muscle-ups", 5, 3),
		reps("Ring Dips", 15, 10),
		reps("Push-ups", 20, 10),
		reps("Handstand Push-ups", 10, 5),
		meters("Handstand Walk", 25, 25),
		reps("Toes-to-Bar", 15, 10),
		reps("Knees-to-Elbow", 15, 10),
		reps("Box Jump", 20, 10),
		reps("Box Step-up", 20, 15),
		reps("Burpees", 15, 10),
		reps("Air Squat", 30, 20),
		reps("Lunges", 20, 15),
	},
	Conditioning: {
		meters("Run", 400, 400),
		meters("Row", 500, 500),
		meters("Ski Erg", 500, 500),
		meters("Bike", 1000, 1000),
		reps("Double Unders", 50, 50),
		reps("Single Unders", 100, 100),
	},
	Kettlebell: {
		reps("KB Swing", 20, 15),
		reps("KB Clean", 10, 7),
		reps("KB Snatch", 10, 7),
		reps("KB Press", 10, 7),
		reps("KB Goblet Squat", 15, 10),
		reps("KB Deadlift", 15, 10),
	},
	Dumbbell: {
		reps("DB Snatch", 10, 7),
		reps("DB Thruster", 15, 10),
		reps("DB Clean", 10, 7),
		reps("DB Deadlift", 15, 10),
		reps("DB Squat", 15, 10),
		reps("DB Lunge", 12, 8),
	},
}

// Movements returns a copy of the library entries for one category.
func Movements(c Category) []Movement {
	return append([]Movement(nil), library[c]...)
}

// MovementNames lists the distinct movement names available across the
// given categories, in library order.
func MovementNames(categories []Category) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range pool(categories) {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		out = append(out, m.Name)
	}
	return out
}

// pool is the union of the requested categories. Repeated categories and
// unknown ones contribute nothing extra.
func pool(categories []Category) []Movement {
	used := map[Category]bool{}
	var out []Movement
	for _, c := range categories {
		if used[c] {
			continue
		}
		used[c] = true
		out = append(out, library[c]...)
	}
	return out
}

package game

// Level is one rung of the progression ladder.
type Level struct {
	Threshold int
	Name      string
}

// Levels is ordered by ascending threshold; level N is Levels[N-1].
var Levels = []Level{
	{0, "Litter Picker"},
	{250, "Street Sweeper"},
	{600, "Park Ranger"},
	{1100, "Recycler"},
	{1800, "River Guardian"},
	{2700, "Forest Warden"},
	{3800, "Ocean Defender"},
	{5100, "Climate Champion"},
	{6600, "Planet Protector"},
	{8300, "Earth Keeper"},
}

// MaxLevel is the top of the ladder.
var MaxLevel = len(Levels)

// LevelForScore returns the highest level whose threshold score has reached.
func LevelForScore(score int) int {
	level := 1
	for i, l := range Levels {
		if score >= l.Threshold {
			level = i + 1
		}
	}
	return level
}

// LevelName returns the title of level, clamped to the ladder.
func LevelName(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(Levels) {
		level = len(Levels)
	}
	return Levels[level-1].Name
}

// NextThreshold returns the score needed for the level after level, or -1 at the top.
func NextThreshold(level int) int {
	if level < 1 || level >= len(Levels) {
		return -1
	}
	return Levels[level].Threshold
}

// ComboMultiplier returns the score multiplier for a combo value.
func ComboMultiplier(combo int) int {
	switch {
	case combo >= 20:
		return 4
	case combo >= 10:
		return 3
	case combo >= 5:
		return 2
	default:
		return 1
	}
}

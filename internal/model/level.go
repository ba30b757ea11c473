package model

import "math"

// LevelForExp derives a display level from cumulative experience. Reaching
// level n+1 takes 100*n^1.5 total exp; level 1 needs nothing.
func LevelForExp(exp int) int {
	level := 1
	for exp >= ExpForLevel(level+1) {
		level++
	}
	return level
}

// ExpForLevel returns the cumulative exp needed to reach level.
func ExpForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Floor(100 * math.Pow(float64(level-1), 1.5)))
}

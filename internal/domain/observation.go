package domain

import "time"

// Observation is one submitted report of a volcano's status at a given time
// from a given source. Optional fields are pointers; a nil Source falls back
// to DefaultSource at submission time.
type Observation struct {
	Name       string
	Province   *string
	Latitude   float64
	Longitude  float64
	Level      string
	Source     *string
	StatusText *string
	ObservedAt time.Time
}

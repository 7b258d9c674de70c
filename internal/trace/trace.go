package trace

// Event records one executed instruction: the step's logical sequence number,
// the instruction name, and the actor's position, heading, and run status
// after the step.
type Event struct {
	Seq     int64  `json:"seq"`
	Op      string `json:"op"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Heading int    `json:"heading"`
	Status  string `json:"status"`
}

// Outcome is a run's terminal report.
type Outcome struct {
	Status    string `json:"status"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Heading   int    `json:"heading"`
	UsedCount int    `json:"used_count"`
	Stars     int    `json:"stars"`
}

// Snapshot captures a complete run for golden comparison and trace output.
type Snapshot struct {
	Scenario string  `json:"scenario,omitempty"`
	Level    int     `json:"level"`
	Events   []Event `json:"events"`
	Outcome  Outcome `json:"outcome"`
}

// toCanonicalMap converts the snapshot to plain maps and slices for the
// canonical marshaler, which only handles primitives and containers.
func (s *Snapshot) toCanonicalMap() map[string]any {
	events := make([]any, len(s.Events))
	for i, e := range s.Events {
		events[i] = map[string]any{
			"seq":     e.Seq,
			"op":      e.Op,
			"x":       e.X,
			"y":       e.Y,
			"heading": e.Heading,
			"status":  e.Status,
		}
	}
	m := map[string]any{
		"level":  s.Level,
		"events": events,
		"outcome": map[string]any{
			"status":     s.Outcome.Status,
			"x":          s.Outcome.X,
			"y":          s.Outcome.Y,
			"heading":    s.Outcome.Heading,
			"used_count": s.Outcome.UsedCount,
			"stars":      s.Outcome.Stars,
		},
	}
	if s.Scenario != "" {
		m["scenario"] = s.Scenario
	}
	return m
}

// MarshalCanonical serializes the snapshot in canonical form.
func (s *Snapshot) MarshalCanonical() ([]byte, error) {
	return MarshalCanonical(s.toCanonicalMap())
}

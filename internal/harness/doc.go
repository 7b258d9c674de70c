// Package harness provides a conformance testing framework for the Loopy
// simulator.
//
// Scenarios are YAML files describing a level, a recorded list of editor
// gestures, and the expected run outcome. The harness replays the gestures
// through the real snapping engine, compiles and runs the real interpreter,
// applies the real scoring and progress rules against a fresh in-memory
// store, and checks the expectations. Golden-file comparison of the canonical
// run trace catches any behavioral drift the coarse expectations miss.
//
// Every scenario run is fully deterministic: block ids come from the fixed
// generator, the step delay is zero, and traces are ordered by the logical
// step clock.
package harness

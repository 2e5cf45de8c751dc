// Package script replays YAML edit scripts against a text engine.
//
// A script is a starting text, optional engine overrides and a list of
// steps. Each step holds exactly one action:
//
//	name: typing coalesces
//	initial: ""
//	engine:
//	  coalesce_window: 600ms
//	steps:
//	  - insert: {pos: 0, text: "ab"}
//	  - sleep: 100ms
//	  - insert: {pos: 2, text: "c"}
//	  - expect: {text: "abc", undo_count: 1}
//	  - undo: 1
//	  - expect: {text: ""}
//
// Scripts run on a virtual clock: sleep advances it without blocking, so
// coalescing behaves the same on every run. A step with fails: "substring"
// must return an error containing the substring.
//
// Scripts serve both as CLI input and as data-driven tests.
package script

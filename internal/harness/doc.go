// Package harness runs conformance scenarios against the verifier.
//
// # Scenario Format
//
// Scenarios are YAML files pairing a program with its expected verdict:
//
//	name: storage_dead_twice
//	description: "Killing a dead local is ill-formed"
//	program_file: ../programs/storage_dead_twice.yaml
//	target: x86_64
//	expect:
//	  well_formed: false
//	  kind: STATEMENT
//	  message: "local already dead"
//	  path: ["function main", "block bb0", "statement 1"]
//
// The program is either referenced with program_file (resolved relative to
// the scenario file, any loader format) or written inline under program using
// the loader's document format. Programs that must fail to load instead set
// expect.load_error to the expected loader code.
//
// # Matching
//
//   - kind and path match exactly
//   - message matches as a substring
//   - target defaults to x86_64; ptr_size overrides it with a generic target
//
// # Golden Diagnostics
//
// RunWithGolden snapshots the verdict as canonical JSON under
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness

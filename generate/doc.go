// Package generate defines the contract with the generative backend and
// an implementation over flowgraph's llm.Client.
//
// The backend exposes three calls with different determinism profiles:
//
//   - GenerateStructure: creative, high variance tolerated; breaks task
//     text into named steps
//   - Classify: deterministic given identical input; fails explicitly
//     rather than returning a low-confidence guess
//   - EstimateStep: deterministic; one call per step, minutes in 1..120
//
// LLMGenerator holds two clients so the creative stage and the
// deterministic stages can run on different models; see the stage package
// for the tier mapping. MockGenerator provides scripted results, failure
// injection and artificial latency for pipeline tests.
package generate

// Package workflow provides batch estimation as a flowgraph workflow.
//
// Where pipeline drives an interactive session with background stages,
// this package runs the same three generative stages as a linear graph
// for non-interactive use: re-estimating a backlog, benchmarking, or
// seeding correction buckets from historical tasks.
//
// Core types:
//   - State: Workflow execution state with structure, classification and
//     estimate data
//   - NodeFunc: Function signature for workflow nodes
//
// Workflow nodes:
//   - GenerateStructureNode: breaks task text into steps
//   - ClassifyNode: derives engagement, complexity and category
//   - EstimateStepsNode: produces per-step baseline minutes
//   - ComputeRangeNode: applies the learned correction and widens into
//     a display range
//   - RecordObservationNode: writes an actual/baseline ratio back
//   - NotifyNode: sends a completion notification
//
// Example usage:
//
//	graph := flowgraph.NewGraph[workflow.State]().
//		AddNode("structure", workflow.GenerateStructureNode).
//		AddNode("classify", workflow.ClassifyNode).
//		AddNode("estimate", workflow.EstimateStepsNode).
//		AddNode("compute-range", workflow.ComputeRangeNode).
//		AddEdge("structure", "classify").
//		AddEdge("classify", "estimate").
//		AddEdge("estimate", "compute-range").
//		AddEdge("compute-range", flowgraph.END).
//		SetEntry("structure")
//
//	compiled, _ := graph.Compile()
//	state := workflow.NewState("backlog-estimate").WithTaskText("clean the garage")
//	result, err := compiled.Run(ctx, state)
package workflow

// Package pipeline wires readers, the merge engine, the completion chain
// and writers together into the concrete use cases.
//
// Every use case stages its outputs in memory and writes them only after
// the whole run succeeded, so a failed run leaves existing files alone.
// Each run returns a diagnostic.Report with a fingerprint of every
// intermediate mapping set.
package pipeline

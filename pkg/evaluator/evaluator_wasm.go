//go:build (js && wasm) || wasip1

package evaluator

// init disables parallel batch evaluation on WebAssembly targets, where
// goroutines share a single thread and EvalBatch gains nothing from fanning out.
func init() {
	defaultConcurrency = false
}

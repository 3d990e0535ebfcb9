//go:build wasip1

// Command ddexpr-wasi is the WASI (wasip1) entrypoint for use from any
// language that supports the WebAssembly System Interface.
//
// Protocol: single JSON object on stdin, single JSON object on stdout.
//
//	stdin:  { "expression": <expression document>, "vars": { ... } }
//	stdout: { "type": "<type>", "result": <value> }    on success
//	        { "error": "<message>", "code": "<code>" }  on failure (exit code 1)
//
// Build:
//
//	GOOS=wasip1 GOARCH=wasm go build -o ddexpr.wasm ./cmd/wasm/wasi/
//
// Usage with wasmtime CLI:
//
//	echo '{"expression":{"name":"add","lhs":3,"rhs":4}}' | wasmtime ddexpr.wasm
package main

import (
	"encoding/json"
	"os"

	"github.com/sandrolain/ddexpr"
	"github.com/sandrolain/ddexpr/pkg/provider"
	"github.com/sandrolain/ddexpr/pkg/types"
)

type request struct {
	Expression json.RawMessage `json:"expression"`
	Vars       json.RawMessage `json:"vars,omitempty"`
}

type response struct {
	Type   string `json:"type"`
	Result any    `json:"result"`
}

type failure struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeResponse(r any, exitCode int) {
	_ = json.NewEncoder(os.Stdout).Encode(r)
	os.Exit(exitCode)
}

func fail(err error) {
	writeResponse(failure{Error: err.Error(), Code: string(types.CodeOf(err))}, 1)
}

func main() {
	var req request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(failure{Error: "invalid request JSON: " + err.Error()}, 1)
	}

	vars := provider.NewContext()
	if len(req.Vars) > 0 {
		if err := vars.SeedJSON(req.Vars); err != nil {
			fail(err)
		}
	}

	expr, err := ddexpr.Compile(req.Expression)
	if err != nil {
		fail(err)
	}
	result, err := expr.Apply(vars)
	if err != nil {
		fail(err)
	}

	writeResponse(response{Type: expr.ReturnType().String(), Result: result}, 0)
}

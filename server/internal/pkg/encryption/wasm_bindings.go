//go:build js && wasm
// +build js,wasm

package encryption

import (
	"fmt"
	"syscall/js"

	"GostCipher/server/internal/pkg/bits"
)

func errorObject(msg string) js.Value {
	obj := js.Global().Get("Object").New()
	obj.Set("error", msg)
	return obj
}

// stringArgs checks that the first n arguments are JS strings
func stringArgs(args []js.Value, n int) ([]string, error) {
	if len(args) < n {
		return nil, fmt.Errorf("insufficient args: expected %d, got %d", n, len(args))
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if args[i].Type() != js.TypeString {
			return nil, fmt.Errorf("argument %d must be a string, got %s", i, args[i].Type().String())
		}
		out[i] = args[i].String()
	}
	return out, nil
}

func registerWasm() {
	engine := NewGOST()

	// WasmCrypto.Encrypt(text, key) -> {ciphertext, preview, blocks}
	encrypt := js.FuncOf(func(this js.Value, args []js.Value) (result any) {
		defer func() {
			if r := recover(); r != nil {
				fmt.Println("[GO] Encrypt panic:", r)
				result = errorObject(fmt.Sprintf("panic: %v", r))
			}
		}()

		in, err := stringArgs(args, 2)
		if err != nil {
			return errorObject(err.Error())
		}

		ciphertext, err := engine.Encrypt(in[0], in[1])
		if err != nil {
			return errorObject(err.Error())
		}

		obj := js.Global().Get("Object").New()
		obj.Set("ciphertext", string(ciphertext))
		obj.Set("preview", bits.Render(ciphertext))
		obj.Set("blocks", ciphertext.Len()/engine.BlockSize())
		return obj
	})

	// WasmCrypto.Decrypt(bits, key) -> {plaintext}
	decrypt := js.FuncOf(func(this js.Value, args []js.Value) (result any) {
		defer func() {
			if r := recover(); r != nil {
				fmt.Println("[GO] Decrypt panic:", r)
				result = errorObject(fmt.Sprintf("panic: %v", r))
			}
		}()

		in, err := stringArgs(args, 2)
		if err != nil {
			return errorObject(err.Error())
		}

		ciphertext, err := bits.Parse(in[0])
		if err != nil {
			return errorObject(err.Error())
		}
		text, err := engine.Decrypt(ciphertext, in[1])
		if err != nil {
			return errorObject(err.Error())
		}

		obj := js.Global().Get("Object").New()
		obj.Set("plaintext", text)
		return obj
	})

	wasmObj := js.Global().Get("WasmCrypto")
	if wasmObj.Type() == js.TypeUndefined {
		wasmObj = js.Global().Get("Object").New()
		js.Global().Set("WasmCrypto", wasmObj)
	}
	wasmObj.Set("Encrypt", encrypt)
	wasmObj.Set("Decrypt", decrypt)
}

// RegisterWasmFunctions registers all WASM functions with JavaScript
func RegisterWasmFunctions() {
	registerWasm()
}

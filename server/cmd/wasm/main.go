//go:build js && wasm
// +build js,wasm

package main

import (
	"fmt"
	"syscall/js"

	"GostCipher/server/internal/pkg/codepage"
	"GostCipher/server/internal/pkg/encryption"
)

func main() {
	engine := encryption.NewGOST()
	encryption.RegisterWasmFunctions()

	// Describe the engine so pages can validate keys before calling Encrypt
	info := js.Global().Get("Object").New()
	info.Set("algorithm", engine.Name())
	info.Set("blockSize", engine.BlockSize())
	info.Set("keySize", engine.KeySize())
	info.Set("keySymbols", encryption.GOSTKeySymbols)
	info.Set("codepageSize", codepage.Size())
	js.Global().Get("WasmCrypto").Set("Info", info)

	js.Global().Set("WasmReady", js.ValueOf(true))
	fmt.Printf("WASM %s ready: %d-bit blocks, %d-symbol keys\n",
		engine.Name(), engine.BlockSize(), encryption.GOSTKeySymbols)

	<-make(chan struct{})
}

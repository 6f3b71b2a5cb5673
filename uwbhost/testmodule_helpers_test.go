package uwbhost

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/uwbwasm/uwbwasm/internal/wasmtest"
)

const (
	allocPtr        = 1024
	configBuf       = 2048
	initLogOffset   = 512
	failedLogOffset = 768
)

var (
	initLogJSON   = `{"level":0,"message":"guest ready","fields":null}`
	failedLogJSON = `{"level":8,"message":"SessionInit failed with bad parameters","fields":{"label":"SessionInit"}}`
)

var (
	noVals  []wasmtest.ValType
	oneI32  = []wasmtest.ValType{wasmtest.I32}
	twoI32  = []wasmtest.ValType{wasmtest.I32, wasmtest.I32}
	sigVoid = wasmtest.Signature{}
)

// testGuest describes a fake guest. Session calls echo their first argument
// as the status byte, so tests choose the status by choosing the id.
type testGuest struct {
	sessionCount int32
	timestamp    int64
	// configLimit makes uwb_get_session_count return the length reported by
	// uwb_get_core_config when called with this buffer limit.
	configLimit int32
	omitExport  string
}

func (tg testGuest) funcs() []wasmtest.Func {
	logCall := func(offset int, msg string) []byte {
		return wasmtest.Seq(wasmtest.I32Const(int32(offset)), wasmtest.I32Const(int32(len(msg))), wasmtest.Call(0))
	}

	countBody := wasmtest.I32Const(tg.sessionCount)
	if tg.configLimit > 0 {
		countBody = wasmtest.Seq(wasmtest.I32Const(configBuf), wasmtest.I32Const(tg.configLimit), wasmtest.Call(1))
	}

	all := []wasmtest.Func{
		{Name: "_initialize", Sig: sigVoid, Body: logCall(initLogOffset, initLogJSON)},
		{Name: abiVersionV1MarkerExport, Sig: sigVoid},
		{Name: memoryAllocate, Sig: wasmtest.Signature{Params: oneI32, Results: oneI32}, Body: wasmtest.I32Const(allocPtr)},
		{Name: doInitialize, Sig: wasmtest.Signature{Results: oneI32}, Body: wasmtest.Seq(logCall(failedLogOffset, failedLogJSON), wasmtest.I32Const(1))},
		{Name: doDeinitialize, Sig: wasmtest.Signature{Results: oneI32}, Body: wasmtest.I32Const(0)},
		{Name: sessionInit, Sig: wasmtest.Signature{Params: twoI32, Results: oneI32}, Body: wasmtest.LocalGet(0)},
		{Name: sessionDeinit, Sig: wasmtest.Signature{Params: oneI32, Results: oneI32}, Body: wasmtest.LocalGet(0)},
		{Name: rangingStart, Sig: wasmtest.Signature{Params: oneI32, Results: oneI32}, Body: wasmtest.LocalGet(0)},
		{Name: rangingStop, Sig: wasmtest.Signature{Params: oneI32, Results: oneI32}, Body: wasmtest.Unreachable},
		{Name: setCountryCode, Sig: wasmtest.Signature{Params: twoI32, Results: oneI32}, Body: wasmtest.I32Const(0)},
		{Name: getSessionCount, Sig: wasmtest.Signature{Results: oneI32}, Body: countBody},
		{Name: getSessionState, Sig: wasmtest.Signature{Params: oneI32, Results: oneI32}, Body: wasmtest.LocalGet(0)},
		{Name: queryUwbTimestamp, Sig: wasmtest.Signature{Results: []wasmtest.ValType{wasmtest.I64}}, Body: wasmtest.I64Const(tg.timestamp)},
	}

	funcs := make([]wasmtest.Func, 0, len(all))
	for _, fn := range all {
		if fn.Name == tg.omitExport {
			continue
		}
		funcs = append(funcs, fn)
	}
	return funcs
}

func (tg testGuest) bytes() []byte {
	return wasmtest.Module{
		Imports: []wasmtest.Import{
			{Module: hostModuleName, Name: logMessage, Sig: wasmtest.Signature{Params: twoI32, Results: noVals}},
			{Module: hostModuleName, Name: getCoreConfig, Sig: wasmtest.Signature{Params: twoI32, Results: oneI32}},
		},
		Funcs:  tg.funcs(),
		Memory: true,
		Data: []wasmtest.Data{
			{Offset: initLogOffset, Bytes: []byte(initLogJSON)},
			{Offset: failedLogOffset, Bytes: []byte(failedLogJSON)},
		},
	}.Bytes()
}

func writeTempModule(t *testing.T, module []byte) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "guest.wasm")
	if err := os.WriteFile(path, module, 0o600); err != nil {
		t.Fatalf("failed to write test module: %v", err)
	}
	return path
}

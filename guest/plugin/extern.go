//go:build wasm

package plugin

import (
	"context"

	"github.com/uwbwasm/uwbwasm/guest/api"
	"github.com/uwbwasm/uwbwasm/guest/internal/mem"
)

var (
	_ func()                     = _abiVersion
	_ func() int32               = _doInitialize
	_ func(uint32) int32         = _sessionDeinit
	_ func(uint32, uint32) int32 = _setCountryCode
	_ func() uint64              = _queryUwbTimestamp
)

//go:wasmexport uwb_abi_version_0_1_0
func _abiVersion() {}

//go:wasmexport uwb_do_initialize
func _doInitialize() int32 {
	return boolToI32(dispatcher.DoInitialize(context.Background()))
}

//go:wasmexport uwb_do_deinitialize
func _doDeinitialize() int32 {
	return boolToI32(dispatcher.DoDeinitialize(context.Background()))
}

// Status bytes are sign-extended into the i32 result.

//go:wasmexport uwb_session_init
func _sessionInit(id, typ uint32) int32 {
	return int32(dispatcher.SessionInit(context.Background(), api.SessionID(id), api.SessionType(typ)))
}

//go:wasmexport uwb_session_deinit
func _sessionDeinit(id uint32) int32 {
	return int32(dispatcher.SessionDeinit(context.Background(), api.SessionID(id)))
}

//go:wasmexport uwb_ranging_start
func _rangingStart(id uint32) int32 {
	return int32(dispatcher.RangingStart(context.Background(), api.SessionID(id)))
}

//go:wasmexport uwb_ranging_stop
func _rangingStop(id uint32) int32 {
	return int32(dispatcher.RangingStop(context.Background(), api.SessionID(id)))
}

// The host writes the code into a buffer obtained from uwb_memory_allocate.
//
//go:wasmexport uwb_set_country_code
func _setCountryCode(ptr, size uint32) int32 {
	raw := mem.TakeOwnership(ptr, size)
	return int32(dispatcher.SetCountryCode(context.Background(), raw))
}

//go:wasmexport uwb_get_session_count
func _getSessionCount() int32 {
	return dispatcher.SessionCount(context.Background())
}

//go:wasmexport uwb_get_session_state
func _getSessionState(id uint32) int32 {
	return int32(dispatcher.SessionState(context.Background(), api.SessionID(id)))
}

//go:wasmexport uwb_query_uwb_timestamp
func _queryUwbTimestamp() uint64 {
	return dispatcher.QueryUwbTimestamp(context.Background())
}

package uwbhost

import "github.com/uwbwasm/uwbwasm/runtime"

const abiVersionV1MarkerExport = "uwb_abi_version_0_1_0"

// ABIVersion represents the detected guest ABI.
type ABIVersion uint8

const (
	// ABIUnknown indicates that no known ABI marker was exported.
	ABIUnknown ABIVersion = iota
	// ABIV1 indicates the guest exports the ABI v1 marker.
	ABIV1
)

func (v ABIVersion) String() string {
	switch v {
	case ABIV1:
		return "v1"
	case ABIUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

func detectABIVersion(mod runtime.ModuleInstance) ABIVersion {
	if mod == nil {
		return ABIUnknown
	}
	if mod.Function(abiVersionV1MarkerExport) != nil {
		return ABIV1
	}
	return ABIUnknown
}

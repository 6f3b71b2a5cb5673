// Package uci defines the UCI status codes that cross the guest/host boundary.
package uci

import "fmt"

// StatusCode is a UCI status value. It is carried across the wasm boundary as a
// signed byte sign-extended into an i32.
type StatusCode uint8

// Generic status codes.
const (
	StatusOk             StatusCode = 0x00
	StatusRejected       StatusCode = 0x01
	StatusFailed         StatusCode = 0x02
	StatusSyntaxError    StatusCode = 0x03
	StatusInvalidParam   StatusCode = 0x04
	StatusInvalidRange   StatusCode = 0x05
	StatusInvalidMsgSize StatusCode = 0x06
	StatusUnknownGid     StatusCode = 0x07
	StatusUnknownOid     StatusCode = 0x08
	StatusReadOnly       StatusCode = 0x09
	StatusCommandRetry   StatusCode = 0x0A
	StatusUnknown        StatusCode = 0x0B
	StatusNotApplicable  StatusCode = 0x0C
)

// Session specific status codes.
const (
	StatusSessionNotExist          StatusCode = 0x11
	StatusSessionDuplicate         StatusCode = 0x12
	StatusSessionActive            StatusCode = 0x13
	StatusMaxSessionsExceeded      StatusCode = 0x14
	StatusSessionNotConfigured     StatusCode = 0x15
	StatusActiveSessionsOngoing    StatusCode = 0x16
	StatusMulticastListFull        StatusCode = 0x17
	StatusAddressNotFound          StatusCode = 0x18
	StatusAddressAlreadyPresent    StatusCode = 0x19
	StatusUwbInitiationTimeTooOld  StatusCode = 0x1A
	StatusOkNegativeDistanceReport StatusCode = 0x1B
)

// Ranging specific status codes.
const (
	StatusRangingTxFailed         StatusCode = 0x20
	StatusRangingRxTimeout        StatusCode = 0x21
	StatusRangingRxPhyDecFailed   StatusCode = 0x22
	StatusRangingRxPhyToaFailed   StatusCode = 0x23
	StatusRangingRxPhyStsFailed   StatusCode = 0x24
	StatusRangingRxMacDecFailed   StatusCode = 0x25
	StatusRangingRxMacIeDecFailed StatusCode = 0x26
	StatusRangingRxMacIeMissing   StatusCode = 0x27
)

// Data transfer status codes.
const (
	StatusDataMaxTxPsduSizeExceeded StatusCode = 0x30
	StatusDataRxCrcError            StatusCode = 0x31
)

// Vendor specific status codes.
const (
	StatusCccSeBusy                        StatusCode = 0x50
	StatusCccLifecycle                     StatusCode = 0x51
	StatusStoppedDueToOtherSessionConflict StatusCode = 0x52
	StatusRegulationUwbOff                 StatusCode = 0x53
)

// maxStatusCode is the largest defined code. The array below fails to compile
// if it ever reaches 0x80, which would make Byte wrap to a negative value.
const maxStatusCode = StatusRegulationUwbOff

var _ [0x7f - maxStatusCode]struct{}

var statusNames = map[StatusCode]string{
	StatusOk:                               "OK",
	StatusRejected:                         "REJECTED",
	StatusFailed:                           "FAILED",
	StatusSyntaxError:                      "SYNTAX_ERROR",
	StatusInvalidParam:                     "INVALID_PARAM",
	StatusInvalidRange:                     "INVALID_RANGE",
	StatusInvalidMsgSize:                   "INVALID_MSG_SIZE",
	StatusUnknownGid:                       "UNKNOWN_GID",
	StatusUnknownOid:                       "UNKNOWN_OID",
	StatusReadOnly:                         "READ_ONLY",
	StatusCommandRetry:                     "COMMAND_RETRY",
	StatusUnknown:                          "UNKNOWN",
	StatusNotApplicable:                    "NOT_APPLICABLE",
	StatusSessionNotExist:                  "SESSION_NOT_EXIST",
	StatusSessionDuplicate:                 "SESSION_DUPLICATE",
	StatusSessionActive:                    "SESSION_ACTIVE",
	StatusMaxSessionsExceeded:              "MAX_SESSIONS_EXCEEDED",
	StatusSessionNotConfigured:             "SESSION_NOT_CONFIGURED",
	StatusActiveSessionsOngoing:            "ACTIVE_SESSIONS_ONGOING",
	StatusMulticastListFull:                "MULTICAST_LIST_FULL",
	StatusAddressNotFound:                  "ADDRESS_NOT_FOUND",
	StatusAddressAlreadyPresent:            "ADDRESS_ALREADY_PRESENT",
	StatusUwbInitiationTimeTooOld:          "UWB_INITIATION_TIME_TOO_OLD",
	StatusOkNegativeDistanceReport:         "OK_NEGATIVE_DISTANCE_REPORT",
	StatusRangingTxFailed:                  "RANGING_TX_FAILED",
	StatusRangingRxTimeout:                 "RANGING_RX_TIMEOUT",
	StatusRangingRxPhyDecFailed:            "RANGING_RX_PHY_DEC_FAILED",
	StatusRangingRxPhyToaFailed:            "RANGING_RX_PHY_TOA_FAILED",
	StatusRangingRxPhyStsFailed:            "RANGING_RX_PHY_STS_FAILED",
	StatusRangingRxMacDecFailed:            "RANGING_RX_MAC_DEC_FAILED",
	StatusRangingRxMacIeDecFailed:          "RANGING_RX_MAC_IE_DEC_FAILED",
	StatusRangingRxMacIeMissing:            "RANGING_RX_MAC_IE_MISSING",
	StatusDataMaxTxPsduSizeExceeded:        "DATA_MAX_TX_PSDU_SIZE_EXCEEDED",
	StatusDataRxCrcError:                   "DATA_RX_CRC_ERROR",
	StatusCccSeBusy:                        "CCC_SE_BUSY",
	StatusCccLifecycle:                     "CCC_LIFECYCLE",
	StatusStoppedDueToOtherSessionConflict: "STOPPED_DUE_TO_OTHER_SESSION_CONFLICT",
	StatusRegulationUwbOff:                 "REGULATION_UWB_OFF",
}

// String returns the UCI name of the status code.
func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(s))
}

// IsOk reports whether s is StatusOk.
func (s StatusCode) IsOk() bool {
	return s == StatusOk
}

// Byte reinterprets the status bits as a signed byte.
func (s StatusCode) Byte() int8 {
	return int8(s)
}

// FromByte is the inverse of Byte.
func FromByte(b int8) StatusCode {
	return StatusCode(uint8(b))
}

// Err returns nil for StatusOk and a *StatusError otherwise.
func (s StatusCode) Err() error {
	if s.IsOk() {
		return nil
	}
	return &StatusError{Code: s}
}

// StatusError is a non-OK status surfaced as a Go error on the host side.
type StatusError struct {
	Code StatusCode
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("uci status %s (0x%02x)", e.Code, uint8(e.Code))
}

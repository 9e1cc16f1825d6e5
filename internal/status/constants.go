// internal/status/constants.go
package status

// Device Status Block layout constants.
// These values define the register layout and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of registers per device block.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

const (
	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2

	// SlotModelCode holds the raw model byte of the last good read.
	SlotModelCode = 3

	// SlotPollCount counts successful reads, wrapping at 65535.
	SlotPollCount = 4
)

// ---- RESERVED RANGE ----

const SlotReservedStart = 5
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// The device name always sits at the END of the block.
const SlotDeviceNameStart = 11

const SlotDeviceNameSlots = 8

// SlotDeviceNameEnd is the last slot used for the device name (inclusive).
const SlotDeviceNameEnd = SlotDeviceNameStart + SlotDeviceNameSlots - 1

// DeviceNameMaxChars is the maximum number of ASCII characters stored.
const DeviceNameMaxChars = 16

// ---- HEALTH CODES ----

const (
	HealthUnknown uint16 = 0
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
	HealthStale   uint16 = 3
)

// ---- ERROR CODES ----

// Codes written to SlotLastErrorCode. 0 means no error.
const (
	ErrorNone      uint16 = 0
	ErrorGeneric   uint16 = 1
	ErrorTimeout   uint16 = 2
	ErrorFrame     uint16 = 3
	ErrorChecksum  uint16 = 4
	ErrorTransport uint16 = 5
)

// Package sensor reads the ambient light sensor with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package sensor

// Reader samples the light sensor.
type Reader interface {
	// ReadDark reports whether the room is currently dark.
	ReadDark() (bool, error)

	// Close releases sensor resources.
	Close() error
}

// DefaultPin is the BCM pin the LDR module's digital output is wired to.
const DefaultPin = 26

package sao

// The identity block is the fixed descriptor exposed read-only at
// AddressIdentity. Layout: "LIFE" magic, name length, driver length, driver
// data length, a reserved byte, then the name string, the driver string and
// the driver data bytes. It is never written at runtime.

const (
	identityName   = "WICCON SOCIAL BATTERY"
	identityDriver = "WICCON"
)

// identityDriverData is the driver's private parameter block.
var identityDriverData = [8]byte{0x07, 0x28, 0, 0, 0, 0, 0, 0}

var identityBlock = buildIdentity()

func buildIdentity() []byte {
	b := make([]byte, 0, 8+len(identityName)+len(identityDriver)+len(identityDriverData))
	b = append(b, 'L', 'I', 'F', 'E')
	b = append(b, byte(len(identityName)), byte(len(identityDriver)), byte(len(identityDriverData)), 0)
	b = append(b, identityName...)
	b = append(b, identityDriver...)
	b = append(b, identityDriverData[:]...)
	return b
}

// Identity returns the descriptor bytes served at AddressIdentity.
// Callers must treat the slice as immutable.
func Identity() []byte { return identityBlock }

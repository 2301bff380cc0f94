package socialbattery

// Identity is the parsed descriptor block the accessory emulates at
// AddressIdentity, following the eeprom-style layout: the magic "LIFE",
// three section lengths, a reserved byte, then the name, driver name and
// driver data sections back to back.
type Identity struct {
	Name       string
	Driver     string
	DriverData []byte
}

const identityHeaderLen = 8

// ReadIdentity fetches and parses the descriptor block.
func (d *Device) ReadIdentity() (Identity, error) {
	var id Identity
	var hdr [identityHeaderLen]byte
	d.w[0] = 0
	if err := d.bus.Tx(AddressIdentity, d.w[:1], hdr[:]); err != nil {
		return id, err
	}
	if hdr[0] != 'L' || hdr[1] != 'I' || hdr[2] != 'F' || hdr[3] != 'E' {
		return id, ErrIdentity
	}
	nameLen := int(hdr[4])
	driverLen := int(hdr[5])
	dataLen := int(hdr[6])

	var body [255]byte
	total := nameLen + driverLen + dataLen
	if total > len(body) {
		// A sane device never fills the address space; a glitched
		// header must not panic the host.
		return id, ErrIdentity
	}
	d.w[0] = identityHeaderLen
	if err := d.bus.Tx(AddressIdentity, d.w[:1], body[:total]); err != nil {
		return id, err
	}
	id.Name = string(body[:nameLen])
	id.Driver = string(body[nameLen : nameLen+driverLen])
	id.DriverData = append([]byte(nil), body[nameLen+driverLen:total]...)
	return id, nil
}

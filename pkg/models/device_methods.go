package models

// HasName reports whether the device advertised a name
func (d *Device) HasName() bool {
	return d.Name != ""
}

// DisplayName returns the name, or UnknownName when none was advertised
func (d *Device) DisplayName() string {
	if d.Name == "" {
		return UnknownName
	}
	return d.Name
}

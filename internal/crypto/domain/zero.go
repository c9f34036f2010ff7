package domain

// Zero overwrites b with zeros. Callers use it on key material once it is no longer needed.
func Zero(b []byte) {
	clear(b)
}

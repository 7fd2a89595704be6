package registry

// LooksTextual reports whether the first bytes of an artifact (the
// registry caps textual plugins to the first 512 bytes) look like text
// rather than a binary container. A textual plugin's Identify should call
// this before attempting any regex/line-oriented parse, and a binary
// plugin's Identify should reject outright on anything this returns true
// for — guarding each plugin kind against crashing on the other's input.
func LooksTextual(data []byte) bool {
	if len(data) > 512 {
		data = data[:512]
	}

	consecutiveNULs := 0
	for _, b := range data {
		if b == 0 {
			consecutiveNULs++
			if consecutiveNULs >= 2 {
				return false
			}
			continue
		}
		consecutiveNULs = 0

		if b < 0x20 && b != '\n' && b != '\r' {
			return false
		}
	}
	return true
}

package ir

// IsNullText reports whether plain scalar text resolves to null.
func IsNullText(s string) bool {
	switch s {
	case "", "~", "null", "Null", "NULL":
		return true
	}
	return false
}

// ParseBool parses plain scalar text as a boolean.
func ParseBool(s string) (bool, bool) {
	switch s {
	case "true", "True", "TRUE":
		return true, true
	case "false", "False", "FALSE":
		return false, true
	}
	return false, false
}

// IsLegacyBool reports whether s is one of the YAML 1.1 boolean words that
// resolve as strings here but as booleans in YAML 1.1 readers.
func IsLegacyBool(s string) bool {
	switch s {
	case "y", "Y", "yes", "Yes", "YES", "n", "N", "no", "No", "NO",
		"on", "On", "ON", "off", "Off", "OFF":
		return true
	}
	return false
}

// ResolvePlain resolves the text of an untagged plain scalar, trying null,
// boolean and number before falling back to a string.
func ResolvePlain(s string) *Value {
	if IsNullText(s) {
		return Null()
	}
	if b, ok := ParseBool(s); ok {
		return FromBool(b)
	}
	if n, ok := ParseNumber(s); ok {
		return FromNumber(n)
	}
	return FromString(s)
}

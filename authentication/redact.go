package authentication

const redactedPlaceholder = "[REDACTED]"

// Redacted is a string whose value is hidden from formatted output. It is
// used for credential material (client secrets, cached access tokens) that
// must never reach logs or debug dumps. Convert back with string() where the
// real value is needed.
type Redacted string

// String implements fmt.Stringer and returns a fixed placeholder.
func (Redacted) String() string { return redactedPlaceholder }

// GoString hides the value from %#v formatting as well.
func (Redacted) GoString() string { return redactedPlaceholder }

package ir

// Version constants for stored draws.
const (
	// FormatVersion is the version of the stored draw layout.
	FormatVersion = "1"

	// GeneratorVersion identifies the pairing generator that produced a draw.
	GeneratorVersion = "0.1.0"
)

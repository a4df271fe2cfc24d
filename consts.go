package ldexpand

const (
	// BlankNode is the blank node prefix.
	BlankNode = "_:"
)

// Values for @direction.
const (
	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// JSON-LD MIME types and profiles.
const (
	ApplicationLDJSON = "application/ld+json"
	ApplicationJSON   = "application/json"

	ProfileExpanded = "http://www.w3.org/ns/json-ld#expanded"
	ProfileContext  = "http://www.w3.org/ns/json-ld#context"
)

// Processing modes.
const (
	ModeJSONLD10 = "json-ld-1.0"
	ModeJSONLD11 = "json-ld-1.1"
)

package constants

// This is set during compilation.
var Version = "latest"

const SourceApp = "healthcare-facade"

// Hospital identifiers accepted on inbound reservations.
const (
	GrandOakID   = "grandoaks"
	ClemencyID   = "clemency"
	PineValleyID = "pinevalley"
)

// Names of the downstream backends.
const (
	HospitalBackend   = "hospital"
	PaymentBackend    = "payment"
	GrandOakBackend   = "grandoak"
	ClemencyBackend   = "clemency"
	PineValleyBackend = "pinevalley"
)

const RequestIDHeader = "X-Request-ID"

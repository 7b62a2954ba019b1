package errors

// Service codes.
const (
	ServiceCommon    = 0
	ServiceConfig    = 1
	ServiceBinder    = 2
	ServiceScanner   = 3
	ServiceExtension = 4
	ServiceModule    = 5
)

// Category codes.
const (
	CategorySuccess  = 0
	CategoryRequest  = 1
	CategoryNotFound = 4
	CategoryConflict = 5
	CategoryInternal = 7
	CategoryIO       = 8
	CategoryState    = 9
	CategoryConfig   = 12
)

// Process exit statuses, following sysexits(3).
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitNoInput  = 66
	ExitSoftware = 70
	ExitIOErr    = 74
	ExitConfig   = 78
)

// MakeCode composes an error code. ParseCode reverses it.
func MakeCode(service, category, sequence int) int {
	return service*100000 + category*1000 + sequence
}

// ParseCode splits a code produced by MakeCode.
func ParseCode(code int) (service, category, sequence int) {
	service = code / 100000
	category = (code / 1000) % 100
	sequence = code % 1000
	return service, category, sequence
}

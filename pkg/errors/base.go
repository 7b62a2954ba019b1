package errors

// Common errors.
var (
	// OK represents success.
	OK = Register(&Errno{Code: MakeCode(ServiceCommon, CategorySuccess, 0), Exit: ExitOK, Message: "success"})

	ErrInternal = Register(&Errno{
		Code:    MakeCode(ServiceCommon, CategoryInternal, 1),
		Exit:    ExitFailure,
		Message: "internal error",
	})

	ErrInvalidArgument = Register(&Errno{
		Code:    MakeCode(ServiceCommon, CategoryRequest, 1),
		Exit:    ExitUsage,
		Message: "invalid argument",
	})
)

// Configuration source errors.
var (
	ErrMissingSource = Register(&Errno{
		Code:    MakeCode(ServiceConfig, CategoryNotFound, 1),
		Exit:    ExitNoInput,
		Message: "configuration source missing",
	})

	ErrParseFailure = Register(&Errno{
		Code:    MakeCode(ServiceConfig, CategoryConfig, 1),
		Exit:    ExitDataErr,
		Message: "configuration source malformed",
	})
)

// Binding errors.
var (
	ErrMissingField = Register(&Errno{
		Code:    MakeCode(ServiceBinder, CategoryConfig, 1),
		Exit:    ExitConfig,
		Message: "required configuration field missing",
	})

	ErrTypeMismatch = Register(&Errno{
		Code:    MakeCode(ServiceBinder, CategoryConfig, 2),
		Exit:    ExitConfig,
		Message: "configuration value has the wrong kind",
	})

	ErrConstraintViolation = Register(&Errno{
		Code:    MakeCode(ServiceBinder, CategoryConfig, 3),
		Exit:    ExitConfig,
		Message: "configuration value violates a constraint",
	})
)

// Scan errors.
var (
	ErrInvalidDeclaration = Register(&Errno{
		Code:    MakeCode(ServiceScanner, CategoryRequest, 1),
		Exit:    ExitSoftware,
		Message: "invalid extension declaration",
	})

	ErrScanIO = Register(&Errno{
		Code:    MakeCode(ServiceScanner, CategoryIO, 1),
		Exit:    ExitIOErr,
		Message: "extension scan i/o failure",
	})
)

// Registration errors.
var (
	ErrDuplicateAlias = Register(&Errno{
		Code:    MakeCode(ServiceExtension, CategoryConflict, 1),
		Exit:    ExitSoftware,
		Message: "duplicate extension alias",
	})

	ErrRegistryFrozen = Register(&Errno{
		Code:    MakeCode(ServiceExtension, CategoryState, 1),
		Exit:    ExitSoftware,
		Message: "extension registry frozen",
	})
)

// Module lifecycle errors.
var (
	ErrDuplicateModule = Register(&Errno{
		Code:    MakeCode(ServiceModule, CategoryConflict, 1),
		Exit:    ExitSoftware,
		Message: "module already registered",
	})

	ErrModuleDependency = Register(&Errno{
		Code:    MakeCode(ServiceModule, CategoryState, 1),
		Exit:    ExitSoftware,
		Message: "module dependency cannot be satisfied",
	})
)

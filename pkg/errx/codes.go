package errx

// RegistryEntry describes a registered error code.
type RegistryEntry struct {
	Code        string
	Description string
}

// Error codes follow a stable 5-digit scheme where the first two digits are
// the domain and the last three digits are reserved for subcodes.
const (
	CodeCLI        = "60000"
	CodeInstall    = "61000"
	CodeVM         = "62000"
	CodeRegistry   = "63000"
	CodeInspect    = "64000"
	CodeTag        = "65000"
	CodePush       = "66000"
	CodeRepository = "67000"
	CodeBuild      = "68000"
	CodeServer     = "69000"
)

const (
	DescCLI        = "CLI/argument validation error"
	DescInstall    = "Installation error"
	DescVM         = "VM lifecycle error"
	DescRegistry   = "Registry configuration error"
	DescInspect    = "Image inspect error"
	DescTag        = "Tag error"
	DescPush       = "Push error"
	DescRepository = "Repository error"
	DescBuild      = "Build error"
	DescServer     = "Server error"
)

var registryEntries = []RegistryEntry{
	{Code: CodeCLI, Description: DescCLI},
	{Code: CodeInstall, Description: DescInstall},
	{Code: CodeVM, Description: DescVM},
	{Code: CodeRegistry, Description: DescRegistry},
	{Code: CodeInspect, Description: DescInspect},
	{Code: CodeTag, Description: DescTag},
	{Code: CodePush, Description: DescPush},
	{Code: CodeRepository, Description: DescRepository},
	{Code: CodeBuild, Description: DescBuild},
	{Code: CodeServer, Description: DescServer},
}

var registryMap = func() map[string]string {
	m := make(map[string]string, len(registryEntries))
	for _, entry := range registryEntries {
		m[entry.Code] = entry.Description
	}
	return m
}()

// ErrorRegistry returns the error registry in deterministic order.
func ErrorRegistry() []RegistryEntry {
	entries := make([]RegistryEntry, len(registryEntries))
	copy(entries, registryEntries)
	return entries
}

// DescriptionFor returns the registry description for a code.
func DescriptionFor(code string) (string, bool) {
	desc, ok := registryMap[code]
	return desc, ok
}

// IsValidCode checks if the given error code is registered.
func IsValidCode(code string) bool {
	_, ok := registryMap[code]
	return ok
}

// CreateByCode creates an Error using the provided code, description, and
// message. Convenience wrapper over New() and Wrap().
func CreateByCode(code, description, message string, cause error) *Error {
	if cause != nil {
		return Wrap(code, description, message, cause)
	}
	return New(code, description, message)
}

// FromSentinel creates an Error from a sentinel error and optional
// message/cause. The sentinel determines the category via the lookup
// function; unknown sentinels fall back to the CLI category.
func FromSentinel(sentinel error, lookup func(error) (code, description string), message string, cause error) *Error {
	code, desc := lookup(sentinel)
	if code == "" {
		code = CodeCLI
		desc = DescCLI
	}
	return CreateByCode(code, desc, message, cause).WithBase(sentinel)
}

// VM creates a VM lifecycle error.
func VM(message string) *Error {
	return New(CodeVM, DescVM, message)
}

// WrapVM wraps a cause with a VM lifecycle error.
func WrapVM(message string, cause error) *Error {
	return Wrap(CodeVM, DescVM, message, cause)
}

// Server creates a server boundary error. Used for faults caught at the
// outermost tool boundary that have no more specific category.
func Server(message string) *Error {
	return New(CodeServer, DescServer, message)
}

// WrapServer wraps a cause with a server boundary error.
func WrapServer(message string, cause error) *Error {
	return Wrap(CodeServer, DescServer, message, cause)
}

// Package errx provides structured, code-based errors for finch-mcp.
//
// Every error carries:
//   - a stable 5-digit error code (e.g. "62000" for VM lifecycle errors)
//   - a category description (e.g. "VM lifecycle error")
//   - a user-facing message
//   - optional structured context (key-value pairs)
//   - optional cause and base sentinel errors
//
// Error codes use the first two digits for the domain:
//   - 60xxx: CLI/argument validation errors
//   - 61xxx: Installation errors
//   - 62xxx: VM lifecycle errors
//   - 63xxx: Registry configuration errors
//   - 64xxx: Image inspect errors
//   - 65xxx: Tag errors
//   - 66xxx: Push errors
//   - 67xxx: Repository errors
//   - 68xxx: Build errors
//   - 69xxx: Server boundary/configuration errors
//
// The last three digits are reserved for subcodes.
//
// Example usage:
//
//	err := errx.VM("failed to start VM").
//		WithContext("state", "stopped").
//		WithBase(sentinelErr)
//
//	if errors.Is(err, sentinelErr) {
//		// Handle specific error
//	}
//
//	fmt.Println(errx.UserString(err))  // User-friendly message
//	fmt.Println(errx.DebugString(err)) // Full debug details
package errx

package cmd

// Exit codes for the urimod CLI
const (
	// ExitSuccess indicates the exchange completed with an ok status
	ExitSuccess = 0

	// ExitRemoteError indicates the server answered outside the ok range
	ExitRemoteError = 1

	// ExitParseError indicates the parameter document could not be read
	ExitParseError = 2

	// ExitConfigError indicates an invalid parameter combination
	ExitConfigError = 3

	// ExitNetworkError indicates the exchange could not complete
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

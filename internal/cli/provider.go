package cli

// CLIColorProvider supplies theme colors to the error handler without making
// the errors package depend on the ui package.
type CLIColorProvider struct{}

// Yellow returns the warning color of the current theme.
func (CLIColorProvider) Yellow() string { return ColorYellow() }

// Reset returns the reset escape code of the current theme.
func (CLIColorProvider) Reset() string { return ColorReset() }

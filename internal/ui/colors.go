package ui

// Theme-aware accessors for the escape codes the factoring output uses.
// Call sites (the comparison table, proof conclusions, the error handler)
// go through these instead of holding a Theme, so switching to the
// no-color theme mid-run is picked up immediately.

// ColorReset returns the reset escape code of the current theme.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color, used for failed runs and disproved claims.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorGreen returns the success color, used for found factors and upheld claims.
func ColorGreen() string { return GetCurrentTheme().Success }

// ColorYellow returns the warning color, used for clamped step sizes and timeouts.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorBlue returns the primary accent color of the current theme.
func ColorBlue() string { return GetCurrentTheme().Primary }

// ColorMagenta returns the info color of the current theme.
func ColorMagenta() string { return GetCurrentTheme().Info }

// ColorCyan returns the secondary accent color, used for engine names.
func ColorCyan() string { return GetCurrentTheme().Secondary }

// ColorBold returns the bold escape code of the current theme.
func ColorBold() string { return GetCurrentTheme().Bold }

// ColorUnderline returns the underline escape code of the current theme.
func ColorUnderline() string { return GetCurrentTheme().Underline }

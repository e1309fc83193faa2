package tui

// Color constants for the workday TUI theme
const (
	// Text Colors
	ColorPrimaryText   = "#E6EAF2" // Primary text (titles, task descriptions)
	ColorSecondaryText = "#B1B8C7" // Secondary text - subtle purple-tinted grey
	ColorDisabledText  = "#6D7383" // Disabled/muted text (completed tasks)
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors
	ColorAccentMain   = "#7C3AED" // Header, accent elements
	ColorAccentBright = "#A78BFA" // Cursor row, highlights

	// State Colors
	ColorError   = "#EF4444" // Errors
	ColorSuccess = "#22C55E" // Open session marker
	ColorWarning = "#F59E0B" // Overtime marker
)

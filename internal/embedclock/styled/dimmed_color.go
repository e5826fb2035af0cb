package styled

import "github.com/fatih/color"

// DimmedColor returns a dimmed *color.Color to print secondary information.
func DimmedColor() *color.Color {
	return color.RGB(128, 128, 128)
}

// WarnColor returns the *color.Color used for warnings outside tables.
func WarnColor() *color.Color {
	return color.New(color.FgYellow)
}

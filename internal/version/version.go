package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art of embedclock.
func asciiArtTpl() string {
	asciiArt := `
                 __             __     __           __  
  ___  ____ ___ / /  ___ ___ __/ /_ __/ /  ___ ____/ /__
 / -_)/ ,  ' _ / _ \/ -_) _ / _  / __/ / _ \/ __/  '_/
 \__//_/_/_/_//_.__/\__/\_,_/\_,_/\__/_/\___/\__/_/\_\ 
%s ` + Version + `
Reads the clock of an embedded database, one session at a time`

	asciiArt = asciiArt[1:]                          // Drop the leading newline
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// CLIVersion returns the version banner of embedclock.
func CLIVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "CLI")
}

// BenchVersion returns the version banner of embedclockbench.
func BenchVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Bench")
}

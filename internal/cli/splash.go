package cli

import "fmt"

// Version is Ferrum's reported version string.
const Version = "0.1.0"

const asciiBanner = `
    ███████╗███████╗██████╗ ██████╗ ██╗   ██╗███╗   ███╗
    ██╔════╝██╔════╝██╔══██╗██╔══██╗██║   ██║████╗ ████║
    █████╗  █████╗  ██████╔╝██████╔╝██║   ██║██╔████╔██║
    ██╔══╝  ██╔══╝  ██╔══██╗██╔══██╗██║   ██║██║╚██╔╝██║
    ██║     ███████╗██║  ██║██║  ██║╚██████╔╝██║ ╚═╝ ██║
    ╚═╝     ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═╝     ╚═╝
`

// Splash prints the banner and version line (grounded on the original
// engine's splash_screen.rs).
func Splash() {
	fmt.Println(highlight(asciiBanner))
	fmt.Println(highlight("An in-memory relational database engine."))
	fmt.Println()
	fmt.Printf("    Version %s\n", highlight(Version))
	fmt.Println()
}

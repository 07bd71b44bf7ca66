// Command specbook authors manual test specifications from a parameter
// catalog and command templates.
package main

import "github.com/mesh-intelligence/specbook/internal/cli"

func main() {
	cli.Execute()
}

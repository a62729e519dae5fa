package main

import "grafanapdf/internal/cli/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/nfrund/coursewizard/cmd/wizard-cli/cmd"

func main() {
	cmd.Execute()
}

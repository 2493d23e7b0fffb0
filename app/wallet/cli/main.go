package main

import "github.com/ardanlabs/canvas/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}

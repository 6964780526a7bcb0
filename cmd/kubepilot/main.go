package main

import (
	"github.com/kubepilot/kubepilot/cmd/kubepilot/cli"
)

func main() {
	cli.InitAndExecute()
}

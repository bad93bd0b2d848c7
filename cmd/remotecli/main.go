package main

import (
	"github.com/robotalks/remotelink/pkg/cli/sh"

	_ "github.com/robotalks/remotelink/pkg/cli/cmds/remote"
)

func main() {
	sh.Main()
}

// Package main is the entry point for cinelane.
package main

import (
	"github.com/cinelane/cinelane/cmd"
	"github.com/cinelane/cinelane/config"
	"github.com/cinelane/cinelane/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}

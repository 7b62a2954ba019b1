// Package main is the entry point of the lobby server.
package main

import (
	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/shiftsad/lobby/cmd/lobby/app"
)

func main() {
	app.NewApp().Run()
}

package main

import (
	"github.com/ltprof/ltprof/pkg/cmd"
)

func main() {
	cmd.Execute()
}

package main

import (
	"os"

	"github.com/shopmirror/shopstore/cmd"
	"github.com/shopmirror/shopstore/utils/log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Entry point for the srccat command-line tool.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/srccat/cmd/srccat/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

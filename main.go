package main

import (
	"log"

	"github.com/spigell/hh-grader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"github.com/readnote/readnote/internal/cli"
)

func main() {
	cli.Execute()
}

package main

import "github.com/libertil/eea-cdrtools/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/kokkonisd/locstats/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/payrun-io/payrun/internal/cli"

func main() {
	cli.Execute()
}

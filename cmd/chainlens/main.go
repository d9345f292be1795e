package main

import "github.com/vietddude/chainlens/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/burphub/burphub/internal/cli"

func main() {
	cli.Execute()
}

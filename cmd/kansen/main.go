package main

import "github.com/kansen-app/kansen/internal/cli"

func main() {
	cli.Execute()
}

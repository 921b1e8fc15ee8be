package main

import "ri_query/internal/cli"

func main() {
	cli.Main()
}

package main

import "github.com/rpupo63/portfolio-api/cmd"

func main() {
	cmd.Execute()
}

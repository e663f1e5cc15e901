package main

import "pecunio/cmd"

func main() {
	cmd.Execute()
}

package main

import "booktranslator/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/KaramelBytes/visaprep-cli/cmd"

func main() {
	cmd.Execute()
}

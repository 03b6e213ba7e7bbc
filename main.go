package main

import "github.com/schoolhub/facerec/cmd"

func main() {
	cmd.Execute()
}

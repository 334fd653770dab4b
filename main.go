package main

import "github.com/techmaxsolucoes/bkflow-dmn/cmd"

func main() {
	cmd.Execute()
}

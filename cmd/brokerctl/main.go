package main

import "github.com/nfrund/eventbroker/cmd/brokerctl/cmd"

func main() {
	cmd.Execute()
}

package main

import (
	"sports-activity-platform/cmd/server"
)

func main() {
	server.Init()
	server.Run()
}

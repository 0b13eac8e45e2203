package main

import (
	"rollcall.io/infrastructure"
	"rollcall.io/infrastructure/env"
)

func init() {
	env.LoadEnv()
}

func main() {
	infrastructure.StartServer()
}

package main

import "github.com/example/reservation-backend/internal/cli"

func main() {
	cli.Execute()
}

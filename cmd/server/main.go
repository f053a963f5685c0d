package main

import (
	_ "time/tzdata"

	_ "github.com/lib/pq"
)

func main() {
	Execute()
}

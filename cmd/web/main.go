package main

import "college_backend/internal/app"

func main() {
	app.Run()
}

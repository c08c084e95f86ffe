package main

import "ui-harness/internal/bootstrap"

func main() {
	bootstrap.NewApp().Run()
}

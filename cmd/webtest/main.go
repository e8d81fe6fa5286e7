package main

import (
	"webtest-pilot/internal/bootstrap"
)

func main() {
	bootstrap.NewApp().Run()
}

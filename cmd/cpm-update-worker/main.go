package main

import "github.com/nhsdigital/cpm-registry/internal/runtime"

func main() {
	runtime.New().Run()
}

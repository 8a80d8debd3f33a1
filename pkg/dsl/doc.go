/*
Package dsl provides a Go DSL for programmatically constructing Wayfinder node graphs.

It lets tests, demos and embedded deployments define nodes with a fluent builder
instead of a Loam repository on disk.

Example usage:

	package main

	import (
		"github.com/aretw0/wayfinder"
		"github.com/aretw0/wayfinder/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Add(1).By("ana").Title("Intro to Go").Tags("go").Embedding(1, 0).
			Add(2).By("ana").Title("Goroutines").Tags("go", "concurrency").Embedding(0.8, 0.2).
			Add(3).By("bo").Title("Draft").Private()

		store, err := b.Build()
		if err != nil {
			panic(err)
		}

		eng, _ := wayfinder.New(store)
		// ... eng.Decide(ctx, eng.NewContext(...))
	}
*/
package dsl

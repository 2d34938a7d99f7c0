package config_test

import (
	"fmt"
	"log"

	"github.com/cask-framework/cask/config"
)

// ExampleBinder demonstrates configuration binding with coercion and
// defaults.
func ExampleBinder() {
	binder := config.NewBinder()
	node, err := binder.Bind(
		config.MapSource{"server": map[string]any{"port": "8080"}},
		config.Schema{Fields: []config.Field{
			{Name: "server.port", Kind: config.Int, Required: true},
			{Name: "server.host", Kind: config.String, Default: "localhost"},
		}},
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(node.String("server.host"), node.Int("server.port"))
	// Output: localhost 8080
}

// ExampleLayered demonstrates overlaying configuration sources.
func ExampleLayered() {
	base := config.MapSource{"log": map[string]any{"level": "info"}}
	override := config.MapSource{"log": map[string]any{"level": "debug"}}

	node, err := config.NewBinder().Bind(
		config.Layered{base, override},
		config.Schema{Fields: []config.Field{
			{Name: "log.level", Kind: config.String, Constraint: "oneof=debug info warn error"},
		}},
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(node.String("log.level"))
	// Output: debug
}

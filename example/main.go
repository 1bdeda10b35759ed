// This shows how to use the API from Go: the bundle is printed to stdout
// instead of being written next to the entry file.
//
//	go run ./example path/to/root main.lua
package main

import (
	"fmt"
	"os"

	"github.com/luabundle/luabundle/pkg/api"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: example <root> <entry>")
		os.Exit(2)
	}

	result, err := api.Build(api.BuildOptions{
		Root:   os.Args[1],
		Input:  os.Args[2],
		Output: "bundled.lua",
	})
	for _, warn := range result.Warnings {
		fmt.Fprintln(os.Stderr, "[WARN] ", warn.Text)
	}
	for _, msg := range result.Errors {
		fmt.Fprintln(os.Stderr, "[ERROR] ", msg.Text)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, module := range result.Modules {
		fmt.Fprintf(os.Stderr, "%s: %d bytes, acquired %d times\n", module.Path, module.Bytes, module.Sites)
	}
	os.Stdout.Write(result.OutputFiles[0].Contents)
}

//go:build !tinygo

package main

import "matkey-go/cmd/matkeyctl/cmd"

func main() {
	cmd.Execute()
}

package main

import (
	"github.com/lunixbochs/rawcode/go/cmd"

	_ "github.com/lunixbochs/rawcode/go/cmd/build"
	_ "github.com/lunixbochs/rawcode/go/cmd/bundle"
	_ "github.com/lunixbochs/rawcode/go/cmd/extract"
	_ "github.com/lunixbochs/rawcode/go/cmd/sections"
	_ "github.com/lunixbochs/rawcode/go/cmd/symbols"
)

func main() { cmd.Main() }

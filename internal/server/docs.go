package server

import _ "embed"

var (
	//go:embed docs/index.html
	indexHelp []byte

	//go:embed docs/source.html
	sourceHelp []byte
)

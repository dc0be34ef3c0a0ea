// Package gamedata provides profile and skill catalog types plus embedded
// default data (demo profile, UI theme).
package gamedata

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS

// Package assets holds the files compiled into the senzup binary.
package assets

import _ "embed"

// Collections is the default collection definition source, used when no
// collections_url is configured.
//
//go:embed collections.txt
var Collections []byte

// EULA is the license text shown before images are installed.
//
//go:embed eula.txt
var EULA string

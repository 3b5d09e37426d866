// Package opts carries the dependencies shared by all flarecheck commands.
package opts

import (
	"github.com/walteh/flarecheck/pkg/catalog"
	"github.com/walteh/flarecheck/pkg/grammar"
)

// RootOpts is built once at startup from the root flags and handed to every
// subcommand.
type RootOpts struct {
	Catalog *catalog.Catalog
	Checker grammar.Checker
}

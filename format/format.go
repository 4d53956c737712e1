// Package format encodes concrete syntax trees for display.
package format

import "github.com/dhamidi/peg/cst"

type Encoder interface {
	Encode(node *cst.Node) error
}

package format

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/peg/cst"
)

// TreeEncoder writes one node per line, indented by depth:
//
//	Expr 1:1-1:6
//	  Term 1:1-1:2
//	    number "1" 1:1-1:2
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w, positions: true}
}

// WithoutPositions leaves spans out of the output.
func (e *TreeEncoder) WithoutPositions() *TreeEncoder {
	e.positions = false
	return e
}

func (e *TreeEncoder) Encode(node *cst.Node) error {
	bw := bufio.NewWriter(e.w)
	e.write(bw, node, 0)
	return bw.Flush()
}

func (e *TreeEncoder) write(w *bufio.Writer, n *cst.Node, depth int) {
	w.WriteString(strings.Repeat("  ", depth))
	w.WriteString(n.Kind)
	if n.IsTerminal() {
		fmt.Fprintf(w, " %q", n.Text)
	}
	if e.positions {
		fmt.Fprintf(w, " %s-%s", n.Span.Start, n.Span.End)
	}
	w.WriteByte('\n')
	for _, child := range n.Children {
		e.write(w, child, depth+1)
	}
}

// Plugin lexer-oracle is a stand-alone annotate oracle that splits chunks
// into sentences lexically, without checking them. It speaks the same
// protocol as a real prover bridge and can be used with
// --oracle=process --oracle-command=lexer-oracle.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/FocuswithJustin/ProofWeave/core/oracle"
	"github.com/FocuswithJustin/ProofWeave/plugins/ipc"
)

func main() {
	if err := ipc.Serve(context.Background(), os.Stdin, os.Stdout, oracle.NewLexical().Annotate); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

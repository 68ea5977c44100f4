package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/errors"
	"github.com/sudotliu/bonsai/pkg/treeio"
)

// validateCommand creates the validate command for checking tree documents.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [tree.json]",
		Short: "Check a tree document for structural problems",
		Long: `Check a tree document for structural problems.

Validation covers both the document shape (unique ids, resolvable parents,
exactly one root) and the tree structure the positioning engine requires.
The command exits non-zero when the document is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0])
		},
	}
}

// runValidate imports the document and runs a dry positioning pass.
func (c *CLI) runValidate(input string) error {
	doc, err := treeio.ImportFile(input)
	if err != nil {
		printError("Invalid document")
		printDetail("%s", errors.UserMessage(err))
		return err
	}

	// A positioning run catches structural problems Validate cannot see from
	// the flat node list, such as depth overflow under the default limits.
	tree, err := bonsai.New(doc.Children(), bonsai.DefaultConfig(), bonsai.WithLogger(c.Logger))
	if err != nil {
		printError("Invalid tree structure")
		printDetail("%s", errors.UserMessage(err))
		return err
	}

	printSuccess("Document is valid")
	printDetail("Root: %s", tree.RootID())
	printDetail("%d nodes, %d levels", len(doc.Nodes), documentDepth(doc))
	printNewline()
	printNextStep("Layout", fmt.Sprintf("bonsai layout %s", input))
	return nil
}

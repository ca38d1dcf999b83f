package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lineascope/lineascope/pkg/lineage"
	"github.com/lineascope/lineascope/pkg/store"
)

// docsCommand creates the docs command group for managing saved documents.
func (c *CLI) docsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage saved lineage documents",
	}

	cmd.AddCommand(c.docsListCommand())
	cmd.AddCommand(c.docsSaveCommand())
	cmd.AddCommand(c.docsShowCommand())
	cmd.AddCommand(c.docsDeleteCommand())

	return cmd
}

// docsListCommand creates the "docs list" subcommand.
func (c *CLI) docsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			docs, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list documents: %w", err)
			}
			if len(docs) == 0 {
				printInfo("No saved documents")
				return nil
			}
			for _, d := range docs {
				fmt.Println(StyleValue.Render(d.ID) + "  " + StyleHighlight.Render(d.Name) + "  " + StyleDim.Render(d.UpdatedAt.Format("2006-01-02 15:04")))
			}
			return nil
		},
	}
}

// docsSaveCommand creates the "docs save" subcommand.
func (c *CLI) docsSaveCommand() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save [graph.json]",
		Short: "Save a lineage graph as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := lineage.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}

			if name == "" {
				base := filepath.Base(args[0])
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}

			doc, err := store.NewDocument(name, "", g)
			if err != nil {
				return fmt.Errorf("create document: %w", err)
			}

			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Put(cmd.Context(), doc); err != nil {
				return fmt.Errorf("save document: %w", err)
			}

			printSuccess("Saved %q", doc.Name)
			printKeyValue("ID", doc.ID)
			printStats(g.NodeCount(), g.EdgeCount(), false)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "document name (default: input file name)")

	return cmd
}

// docsShowCommand creates the "docs show" subcommand.
func (c *CLI) docsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Print a saved document's graph JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			doc, err := st.Get(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("document %s not found", args[0])
			}
			if err != nil {
				return fmt.Errorf("load document: %w", err)
			}

			_, err = os.Stdout.Write(append(doc.Graph, '\n'))
			return err
		},
	}
}

// docsDeleteCommand creates the "docs delete" subcommand.
func (c *CLI) docsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a saved document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("document %s not found", args[0])
				}
				return fmt.Errorf("delete document: %w", err)
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// openStore loads configuration and opens the configured document store.
func (c *CLI) openStore(cmd *cobra.Command) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return c.newStoreFromConfig(cmd.Context(), cfg)
}

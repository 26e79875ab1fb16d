package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/domain"
	"github.com/eykd/linemark/internal/fs"
)

// treeNode is the nested display form of one outline node.
type treeNode struct {
	MP       string      `json:"mp" yaml:"mp"`
	ID       string      `json:"id" yaml:"id"`
	Title    string      `json:"title" yaml:"title"`
	Doctypes []string    `json:"doctypes,omitempty" yaml:"doctypes,omitempty"`
	Files    []fileInfo  `json:"files,omitempty" yaml:"files,omitempty"`
	Children []*treeNode `json:"children" yaml:"children"`
}

type fileInfo struct {
	Name string `json:"name" yaml:"name"`
	Size string `json:"size" yaml:"size"`
}

// NewListCmd creates the list command.
func NewListCmd(app *App) *cobra.Command {
	var showTypes bool
	var showFiles bool
	var format string

	cmd := &cobra.Command{
		Use:   "list [subtree]",
		Short: "Display the outline as a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Service()
			if err != nil {
				return err
			}
			loaded, err := svc.Load(cmd.Context())
			if err != nil {
				return err
			}

			nodes := loaded.Outline.Nodes()
			if len(args) == 1 {
				ref, err := domain.ParseRef(args[0])
				if err != nil {
					return err
				}
				root, err := svc.Resolve(loaded.Outline, ref)
				if err != nil {
					return err
				}
				nodes = loaded.Outline.Subtree(root.Path)
			}

			roots, err := buildTree(cmd.Context(), app, nodes, showTypes, showFiles)
			if err != nil {
				return err
			}

			if app.JSON {
				format = formatJSON
			}
			if format != formatText {
				return writeStructured(cmd.OutOrStdout(), format, roots)
			}
			renderTree(cmd.OutOrStdout(), roots)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTypes, "types", false, "Show each node's doctypes")
	cmd.Flags().BoolVar(&showFiles, "files", false, "Show each node's files with sizes")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json, or yaml")

	return cmd
}

// buildTree nests the flat path-ordered node list into display trees.
// Nodes whose parent is absent from the listing become top-level.
func buildTree(ctx context.Context, app *App, nodes []*domain.Node, showTypes, showFiles bool) ([]*treeNode, error) {
	byPath := map[string]*treeNode{}
	var roots []*treeNode
	for _, n := range nodes {
		tn := &treeNode{
			MP:       n.Path.String(),
			ID:       n.ID,
			Title:    n.Title,
			Children: []*treeNode{},
		}
		if showTypes {
			tn.Doctypes = n.Doctypes
		}
		if showFiles {
			infos, err := nodeFiles(ctx, app, n)
			if err != nil {
				return nil, err
			}
			tn.Files = infos
		}
		byPath[tn.MP] = tn

		if parent, ok := n.Path.Parent(); ok {
			if parentNode, present := byPath[parent.String()]; present {
				parentNode.Children = append(parentNode.Children, tn)
				continue
			}
		}
		roots = append(roots, tn)
	}
	return roots, nil
}

// nodeFiles stats each doctype file for the --files column.
func nodeFiles(ctx context.Context, app *App, n *domain.Node) ([]fileInfo, error) {
	dir, err := app.ResolveDir()
	if err != nil {
		return nil, err
	}
	d := &fs.Dir{Root: dir}
	var infos []fileInfo
	for _, doctype := range n.Doctypes {
		name := n.Filename(doctype)
		size, err := d.Size(ctx, name)
		if err != nil {
			continue
		}
		infos = append(infos, fileInfo{Name: name, Size: humanize.Bytes(uint64(size))})
	}
	return infos, nil
}

// renderTree writes each top-level node and its subtree with
// box-drawing connectors.
func renderTree(w io.Writer, roots []*treeNode) {
	for _, root := range roots {
		fmt.Fprintf(w, "%s\n", nodeLine(root))
		for _, f := range root.Files {
			fmt.Fprintf(w, "    %s  %s\n", dimText(f.Name), f.Size)
		}
		renderChildren(w, root.Children, "")
	}
}

// renderChildren recursively renders child nodes with tree prefixes.
func renderChildren(w io.Writer, children []*treeNode, prefix string) {
	for i, child := range children {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(children)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		fmt.Fprintf(w, "%s%s%s\n", prefix, connector, nodeLine(child))
		for _, f := range child.Files {
			fmt.Fprintf(w, "%s    %s  %s\n", childPrefix, dimText(f.Name), f.Size)
		}
		renderChildren(w, child.Children, childPrefix)
	}
}

// nodeLine formats the per-node display line.
func nodeLine(n *treeNode) string {
	line := fmt.Sprintf("%s (%s)", n.Title, dimText(n.ID))
	if len(n.Doctypes) > 0 {
		line += " [" + strings.Join(n.Doctypes, ", ") + "]"
	}
	return line
}

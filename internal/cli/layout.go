package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/sudotliu/bonsai/pkg/bonsai"
	"github.com/sudotliu/bonsai/pkg/cache"
	"github.com/sudotliu/bonsai/pkg/treeio"
	"github.com/sudotliu/bonsai/pkg/walker"
)

// layoutTTL bounds how long cached layouts live on disk.
const layoutTTL = 24 * time.Hour

// spacingFlags holds the command-line overrides for the spacing configuration.
// Only flags the user actually set are applied on top of the config file.
type spacingFlags struct {
	siblingSeparation float64
	subtreeSeparation float64
	levelSeparation   float64
	maxDepth          int
	nodeSize          float64
}

// register adds the spacing flags to cmd.
func (f *spacingFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.siblingSeparation, "sibling-separation", 0, "minimum gap between adjacent siblings")
	cmd.Flags().Float64Var(&f.subtreeSeparation, "subtree-separation", 0, "minimum gap between adjacent subtrees")
	cmd.Flags().Float64Var(&f.levelSeparation, "level-separation", 0, "vertical distance between levels")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "maximum tree depth to position")
	cmd.Flags().Float64Var(&f.nodeSize, "node-size", 0, "width reserved for each node")
}

// apply overlays the flags the user set onto cfg.
func (f *spacingFlags) apply(cmd *cobra.Command, cfg walker.Config) walker.Config {
	if cmd.Flags().Changed("sibling-separation") {
		cfg.SiblingSeparation = f.siblingSeparation
	}
	if cmd.Flags().Changed("subtree-separation") {
		cfg.SubtreeSeparation = f.subtreeSeparation
	}
	if cmd.Flags().Changed("level-separation") {
		cfg.LevelSeparation = f.levelSeparation
	}
	if cmd.Flags().Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if cmd.Flags().Changed("node-size") {
		cfg.NodeSize = f.nodeSize
	}
	return cfg
}

// layoutCommand creates the layout command for positioning tree documents.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output     string
		configPath string
		noCache    bool
		spacing    spacingFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [tree.json]",
		Short: "Compute node positions for a tree document",
		Long: `Compute node positions for a tree document.

The layout command reads a tree document (a JSON list of nodes with parent
references), runs the positioning algorithm, and writes the x/y coordinates
of every node as a layout.json file.

Spacing can be configured with a TOML file (--config) or individual flags;
flags win over the file. Results are cached locally for faster repeat runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, &spacing)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], cfg, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, \"-\" for stdout)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML spacing configuration file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	spacing.register(cmd)

	return cmd
}

// resolveConfig merges defaults, the optional config file, and flag overrides.
func resolveConfig(cmd *cobra.Command, configPath string, spacing *spacingFlags) (walker.Config, error) {
	cfg := bonsai.DefaultConfig()
	if configPath != "" {
		loaded, err := treeio.LoadConfig(configPath)
		if err != nil {
			return walker.Config{}, err
		}
		cfg = loaded
	}
	cfg = spacing.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return walker.Config{}, err
	}
	return cfg, nil
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, cfg walker.Config, output string, noCache bool) error {
	doc, err := treeio.ImportFile(input)
	if err != nil {
		return fmt.Errorf("load tree %s: %w", input, err)
	}

	layoutCache, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer layoutCache.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	layout, cacheHit, err := computeLayout(ctx, layoutCache, doc, cfg, c.Logger)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if output == "-" {
		return treeio.WriteLayout(layout, os.Stdout)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := treeio.ExportLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(doc.Nodes), documentDepth(doc), cacheHit)
	printNewline()
	printNextStep("Edit", "bonsai edit "+input)

	return nil
}

// computeLayout positions the document, consulting the cache first. The bool
// reports whether the result came from the cache.
func computeLayout(ctx context.Context, layoutCache cache.Cache, doc *treeio.Document, cfg walker.Config, logger *log.Logger) (treeio.Layout, bool, error) {
	key, err := layoutKey(doc, cfg)
	if err != nil {
		return treeio.Layout{}, false, err
	}

	if data, hit, err := layoutCache.Get(ctx, key); err == nil && hit {
		var cached treeio.Layout
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, true, nil
		}
	}

	tree, err := bonsai.New(doc.Children(), cfg, bonsai.WithLogger(logger))
	if err != nil {
		return treeio.Layout{}, false, err
	}
	layout := treeio.LayoutFromNodes(tree.Nodes())

	if data, err := json.Marshal(layout); err == nil {
		_ = layoutCache.Set(ctx, key, data, layoutTTL)
	}
	return layout, false, nil
}

// layoutKey derives the cache key from the canonical document bytes and the
// spacing configuration.
func layoutKey(doc *treeio.Document, cfg walker.Config) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	keyer := cache.NewDefaultKeyer()
	return keyer.LayoutKey(cache.Hash(buf.Bytes()), cache.LayoutKeyOpts{
		SiblingSeparation: cfg.SiblingSeparation,
		SubtreeSeparation: cfg.SubtreeSeparation,
		LevelSeparation:   cfg.LevelSeparation,
		MaxDepth:          cfg.MaxDepth,
		NodeSize:          cfg.NodeSize,
		MinX:              cfg.MinX,
		MaxX:              cfg.MaxX,
		MinY:              cfg.MinY,
		MaxY:              cfg.MaxY,
	}), nil
}

// documentDepth counts the number of levels in the document, root included.
func documentDepth(doc *treeio.Document) int {
	parents := make(map[string]string, len(doc.Nodes))
	for _, n := range doc.Nodes {
		parents[n.ID] = n.Parent
	}
	max := 0
	for _, n := range doc.Nodes {
		depth := 1
		for p := n.Parent; p != ""; p = parents[p] {
			depth++
		}
		if depth > max {
			max = depth
		}
	}
	return max
}

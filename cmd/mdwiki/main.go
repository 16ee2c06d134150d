package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/mdwiki/internal/dialect"
	"github.com/dgallion1/mdwiki/internal/hunk"
	"github.com/dgallion1/mdwiki/internal/importer"
	"github.com/dgallion1/mdwiki/internal/render"
	"github.com/dgallion1/mdwiki/internal/toc"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "mdwiki",
	Short: "Wiki markdown tools",
	Long: `Offline tools for the wiki markdown dialect.

Each command reads a file, or stdin when the path is omitted or "-".`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var renderCmd = &cobra.Command{
	Use:   "render [path]",
	Short: "Render markdown to HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

var hunksCmd = &cobra.Command{
	Use:   "hunks [path]",
	Short: "Split markdown into editor hunks",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHunks,
}

var tocCmd = &cobra.Command{
	Use:   "toc [path]",
	Short: "Print the table of contents",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTOC,
}

var importCmd = &cobra.Command{
	Use:   "import path",
	Short: "Convert a txt, csv, html, pdf or docx file to markdown",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var cssCmd = &cobra.Command{
	Use:   "css [style]",
	Short: "Print the stylesheet for a highlight style",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCSS,
}

func init() {
	rootCmd.AddCommand(renderCmd, hunksCmd, tocCmd, importCmd, cssCmd)

	renderCmd.Flags().Bool("json", false, "Print {html, toc} JSON instead of HTML")
	renderCmd.Flags().String("style", render.DefaultStyle, "Chroma highlight style")
	renderCmd.Flags().Bool("sanitize", true, "Sanitize the HTML output")
	renderCmd.Flags().String("embed-base-url", dialect.DefaultEmbedBaseURL, "Base URL for @[id] video embeds")
	renderCmd.Flags().String("code-title-space", dialect.DefaultTitleSpace, "Token standing for a space in code block titles")
	renderCmd.Flags().Bool("hunks", false, "Render each hunk separately as a JSON array")

	hunksCmd.Flags().Bool("kinds", false, "Include the kind of each hunk")
	tocCmd.Flags().Bool("outline", false, "Print the nested outline instead of the flat list")
	importCmd.Flags().Bool("pdftotext", true, "Fall back to pdftotext for PDFs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readSource reads the named file, or stdin for "" and "-".
func readSource(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func runRender(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	style, _ := flags.GetString("style")
	sanitize, _ := flags.GetBool("sanitize")
	embedBase, _ := flags.GetString("embed-base-url")
	titleSpace, _ := flags.GetString("code-title-space")
	asJSON, _ := flags.GetBool("json")
	perHunk, _ := flags.GetBool("hunks")

	r := render.New(render.Config{
		HighlightStyle: style,
		EmbedBaseURL:   embedBase,
		CodeTitleSpace: titleSpace,
		Sanitize:       sanitize,
	})

	if perHunk {
		previews, err := r.RenderHunks(hunk.Segment(source))
		if err != nil {
			return err
		}
		return writeJSON(cmd, previews)
	}

	res, err := r.Render(source)
	if err != nil {
		return err
	}
	if asJSON {
		return writeJSON(cmd, res)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), res.HTML)
	return err
}

func runHunks(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	hunks := hunk.Segment(source)
	if withKinds, _ := cmd.Flags().GetBool("kinds"); !withKinds {
		return writeJSON(cmd, hunks)
	}

	type kinded struct {
		Kind hunk.Kind `json:"kind"`
		Text string    `json:"text"`
	}
	out := make([]kinded, len(hunks))
	for i, h := range hunks {
		out[i] = kinded{Kind: hunk.Classify(h), Text: h}
	}
	return writeJSON(cmd, out)
}

func runTOC(cmd *cobra.Command, args []string) error {
	source, err := readSource(cmd, args)
	if err != nil {
		return err
	}
	entries := toc.Extract(source)
	if outline, _ := cmd.Flags().GetBool("outline"); outline {
		nodes := toc.Outline(entries)
		if nodes == nil {
			nodes = []*toc.Node{}
		}
		return writeJSON(cmd, nodes)
	}
	return writeJSON(cmd, entries)
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	imp, err := importer.ForFile(path)
	if err != nil {
		return err
	}
	if p, ok := imp.(*importer.PDFImporter); ok {
		p.FallbackPdftotext, _ = cmd.Flags().GetBool("pdftotext")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	tree, err := imp.Import(f, path)
	if err != nil {
		return err
	}
	md := hunk.Join(hunk.Segment(tree.Markdown()))
	if !strings.HasSuffix(md, "\n") && md != "" {
		md += "\n"
	}
	_, err = io.WriteString(cmd.OutOrStdout(), md)
	return err
}

func runCSS(cmd *cobra.Command, args []string) error {
	style := render.DefaultStyle
	if len(args) == 1 {
		style = args[0]
	}
	css, err := render.StyleCSS(style)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cmd.OutOrStdout(), css)
	return err
}

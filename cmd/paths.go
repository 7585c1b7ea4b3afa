package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenegen/internal/core/services"
	"scenegen/pkg/ui"
)

var (
	pathsSrcRoot string
	pathsVerify  bool
)

var pathsCmd = &cobra.Command{
	Use:   "paths [root]",
	Short: "Rewrite local mesh paths into package:// URIs",
	Long: `Rewrite plain .stl mesh references in description files under root into
package:// URIs relative to the source root, so the descriptions load
regardless of the working directory.

References already in package form are left alone; running twice changes
nothing. Use --verify to report reference kinds without rewriting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPaths,
}

func init() {
	pathsCmd.Flags().StringVarP(&pathsSrcRoot, "src-root", "s", "", "Source root the package prefix is relative to (default from config)")
	pathsCmd.Flags().BoolVar(&pathsVerify, "verify", false, "Only report mesh reference kinds, do not rewrite")
}

func runPaths(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	root := cfg.DatasetRoot
	if len(args) > 0 {
		root = args[0]
	}
	srcRoot := cfg.SourceRoot
	if pathsSrcRoot != "" {
		srcRoot = pathsSrcRoot
	}

	if pathsVerify {
		return runPathsVerify(root)
	}

	resp, err := pathService.Execute(ctx, services.RewriteRequest{Root: root, SourceRoot: srcRoot})
	if err != nil {
		return err
	}

	for _, r := range resp.Results {
		if r.Err != nil {
			fmt.Println(ui.FormatError(r.Path + ": " + r.Err.Error()))
			continue
		}
		if r.Rewritten > 0 {
			fmt.Println(ui.FormatSuccess(fmt.Sprintf("%s: %d references -> package://%s",
				r.Path, r.Rewritten, r.Package)))
		}
	}

	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Files scanned", fmt.Sprintf("%d", resp.Files)))
	fmt.Println(ui.RenderKeyValue("References rewritten", fmt.Sprintf("%d", resp.Rewritten)))
	if resp.Failed > 0 {
		return fmt.Errorf("%d files failed", resp.Failed)
	}
	return nil
}

func runPathsVerify(root string) error {
	resp, err := pathService.Verify(getContext(), root)
	if err != nil {
		return err
	}

	fmt.Println(ui.RenderKeyValue("package:// references", fmt.Sprintf("%d", len(resp.PackageRefs))))
	fmt.Println(ui.RenderKeyValue("plain references", fmt.Sprintf("%d", len(resp.PlainRefs))))
	if len(resp.PlainRefs) > 0 {
		fmt.Println()
		fmt.Println(ui.FormatWarning("Plain references remaining:"))
		fmt.Print(ui.RenderSimpleList(resp.PlainRefs))
		return fmt.Errorf("%d plain mesh references remain", len(resp.PlainRefs))
	}
	fmt.Println(ui.FormatSuccess("All mesh references use package URIs"))
	return nil
}

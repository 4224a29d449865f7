package scan

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/j-be/renovate/pkg/commands"
	"github.com/j-be/renovate/pkg/manager"
	"github.com/j-be/renovate/pkg/scan"
	"github.com/urfave/cli/v2"
	"sigs.k8s.io/yaml"
)

var Command = cli.Command{
	Name:      "scan",
	Usage:     "Scans a directory tree for GitOps manifest dependencies",
	UsageText: `renovate scan --dir gitops/`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"d"},
			Usage:   "directory tree to scan, SCAN_DIR environment variable alternatively",
			EnvVars: []string{"SCAN_DIR"},
			Value:   ".",
		},
		&cli.StringSliceFlag{
			Name:    "registry-alias",
			Usage:   "rewrite a repository URL, format: from=to",
			EnvVars: []string{"REGISTRY_ALIASES"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format, eg.: json or yaml",
		},
	},
	Action: scanDir,
}

func scanDir(c *cli.Context) error {
	scanner := scan.New(&manager.ExtractConfig{
		RegistryAliases: commands.ParseRegistryAliases(c.StringSlice("registry-alias")),
	})

	report, err := scanner.ScanDir(c.String("dir"))
	if err != nil {
		return err
	}

	switch c.String("output") {
	case "json":
		reportStr := bytes.NewBufferString("")
		e := json.NewEncoder(reportStr)
		e.SetIndent("", "  ")
		err = e.Encode(report)
		if err != nil {
			return fmt.Errorf("cannot serialize report %s", err)
		}
		fmt.Println(reportStr)
	case "yaml":
		out, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("cannot serialize report %s", err)
		}
		fmt.Print(string(out))
	default:
		for _, result := range report.Results {
			commands.PrintFileResult(result)
		}
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Println(gray(fmt.Sprintf("%d files scanned, %d dependencies found", report.Files, report.Deps)))
	}

	return nil
}

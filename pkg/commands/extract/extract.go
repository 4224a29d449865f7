package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/j-be/renovate/pkg/commands"
	"github.com/j-be/renovate/pkg/manager"
	"github.com/j-be/renovate/pkg/scan"
	"github.com/urfave/cli/v2"
)

var Command = cli.Command{
	Name:      "extract",
	Usage:     "Extracts dependency references from GitOps manifests",
	UsageText: `renovate extract -f manifests/app.yaml`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "file",
			Aliases:  []string{"f"},
			Usage:    "manifest file or directory to extract from, - for stdin",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:    "registry-alias",
			Usage:   "rewrite a repository URL, format: from=to",
			EnvVars: []string{"REGISTRY_ALIASES"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format, eg.: json",
		},
	},
	Action: extract,
}

func extract(c *cli.Context) error {
	files, err := commands.InputFiles(c.String("file"))
	if err != nil {
		return fmt.Errorf("cannot read input %s", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	scanner := scan.New(&manager.ExtractConfig{
		RegistryAliases: commands.ParseRegistryAliases(c.StringSlice("registry-alias")),
	})

	results := []scan.FileResult{}
	for _, name := range names {
		if result := scanner.ScanFile(name, []byte(files[name])); result != nil {
			results = append(results, *result)
		}
	}

	if c.String("output") == "json" {
		resultsStr := bytes.NewBufferString("")
		e := json.NewEncoder(resultsStr)
		e.SetIndent("", "  ")
		err = e.Encode(results)
		if err != nil {
			return fmt.Errorf("cannot serialize dependencies %s", err)
		}
		fmt.Println(resultsStr)
		return nil
	}

	if len(results) == 0 {
		fmt.Println("no dependencies found")
		return nil
	}
	for _, result := range results {
		commands.PrintFileResult(result)
	}
	return nil
}

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/j-be/renovate/pkg/dep"
	"github.com/j-be/renovate/pkg/scan"
)

// PrintFileResult renders the dependencies of one file for the terminal.
func PrintFileResult(result scan.FileResult) {
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()

	fmt.Printf("%s %s\n", blue(result.File), gray(fmt.Sprintf("(%s)", result.Manager)))
	for _, d := range result.Deps {
		version := d.CurrentValue
		if version == "" {
			version = d.CurrentDigest
		}
		if version == "" {
			version = "-"
		}

		link := ""
		if len(d.RegistryURLs) > 0 {
			link = d.RegistryURLs[0]
		} else if d.Datasource == dep.DatasourceGitTags {
			if web := dep.GitWebURL(d.DepName); web != "" && web != d.DepName {
				link = web
			}
		}

		fmt.Printf("  %-10s %s %s %s\n", gray(string(d.Datasource)), d.DepName, green(version), gray(link))
	}
	fmt.Println()
}

package commands

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
)

// Run executes a single command the way the real CLI would, for tests.
func Run(cmd *cli.Command, args []string) error {
	app := &cli.App{
		Name:     "renovate",
		Commands: []*cli.Command{cmd},
	}
	return app.Run(args)
}

// InputFiles reads the manifest input of a command: a single file, every
// file of a directory, or stdin when the argument is "-".
func InputFiles(file string) (map[string]string, error) {
	files := map[string]string{}

	if strings.TrimSpace(file) == "-" {
		contents, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return files, err
		}
		files["manifest.yaml"] = string(contents)
		return files, err
	} else {
		file, err := filepath.Abs(file)
		if err != nil {
			return files, err
		}
		fd, err := os.Stat(file)
		if err != nil {
			return files, err
		}
		if fd.IsDir() {
			dir, err := ioutil.ReadDir(file)
			if err != nil {
				return files, err
			}
			for _, f := range dir {
				contents, err := ioutil.ReadFile(filepath.Join(file, f.Name()))
				if err != nil {
					return files, err
				}
				files[filepath.Join(file, f.Name())] = string(contents)
			}
			return files, nil
		} else {
			contents, err := ioutil.ReadFile(file)
			if err != nil {
				return files, err
			}
			files[file] = string(contents)
		}
	}
	return files, nil
}

// ParseRegistryAliases parses repeated from=to flag values into the
// alias map of an extraction config. Entries without a '=' are ignored.
func ParseRegistryAliases(aliases []string) map[string]string {
	parsed := map[string]string{}
	for _, alias := range aliases {
		parts := strings.SplitN(alias, "=", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		parsed[parts[0]] = parts[1]
	}
	return parsed
}

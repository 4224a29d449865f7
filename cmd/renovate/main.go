package main

import (
	"fmt"
	"os"
	"path"
	"runtime"

	"github.com/enescakir/emoji"
	"github.com/j-be/renovate/cmd/renovate/config"
	"github.com/j-be/renovate/pkg/commands/extract"
	"github.com/j-be/renovate/pkg/commands/scan"
	"github.com/j-be/renovate/pkg/version"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Debugf("could not load .env file, relying on env vars")
	}

	config, err := config.Environ()
	if err != nil {
		log.Fatalln("main: invalid configuration")
	}

	initLogging(config)
	if log.IsLevelEnabled(log.TraceLevel) {
		fmt.Println(config.String())
	}

	app := &cli.App{
		Name:                 "renovate",
		Version:              version.String(),
		Usage:                "extracts dependency references from GitOps manifests",
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			&scan.Command,
			&extract.Command,
		},
	}
	err = app.Run(os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", emoji.CrossMark, err.Error())
		os.Exit(1)
	}
}

func initLogging(c *config.Config) {
	log.SetReportCaller(true)

	customFormatter := &log.TextFormatter{
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			filename := path.Base(f.File)
			return "", fmt.Sprintf("[%s:%d]", filename, f.Line)
		},
	}
	customFormatter.FullTimestamp = true
	log.SetFormatter(customFormatter)

	if c.Logging.Debug {
		log.SetLevel(log.DebugLevel)
	}
	if c.Logging.Trace {
		log.SetLevel(log.TraceLevel)
	}
}

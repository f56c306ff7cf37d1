package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/manifest-destiny/mapgrid"
	"github.com/manifest-destiny/mapgrid/catalog"
	"github.com/manifest-destiny/mapgrid/clean"
	"github.com/manifest-destiny/mapgrid/config"
	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/manifest-destiny/mapgrid/palette"
	"github.com/urfave/cli/v2"
)

const defaultDB = "mapgrid.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version, V",
		Usage: "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newMapGrid(c *cli.Context) (*mapgrid.MapGrid, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("scale") {
		cfg.Scale = c.Int("scale")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return mapgrid.New(cfg, newLogger(c)), nil
}

func main() {
	app := cli.NewApp()

	app.Name = "mapgrid"
	app.Usage = "Convert painted map layers to feature grids"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"MAPGRID_CONFIG"},
			Usage:   "path to YAML configuration",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"MAPGRID_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to grid catalog",
		},
		&cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "export",
			Usage:       "Assemble layer images into a grid file",
			Description: "The population map replaces any population image named in the configuration. Output ending in .zst is compressed.",
			ArgsUsage:   "[CITYMAP] OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Usage: "resolution scale",
				},
			},
			Action: func(c *cli.Context) error {
				var cityMap, out string
				switch c.NArg() {
				case 1:
					out = c.Args().First()
				case 2:
					cityMap, out = c.Args().Get(0), c.Args().Get(1)
				default:
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newMapGrid(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := m.Export(cityMap, out); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Render one band of a grid file as an image",
			Description: "",
			ArgsUsage:   "GRID OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "band",
					Value: grid.Population.String(),
					Usage: "band to render",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				b, err := grid.ParseBand(c.String("band"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := newMapGrid(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := m.Import(c.Args().Get(0), c.Args().Get(1), b); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "clean",
			Usage:       "Snap a painted layer to its palette",
			Description: "Modes are index, snap and gradient.",
			ArgsUsage:   "IMAGE OUTPUT",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "palette",
					Required: true,
					Usage:    "palette name (" + strings.Join(palette.Names(), ", ") + ")",
				},
				&cli.StringFlag{
					Name:  "mode",
					Value: clean.Index.String(),
					Usage: "output mode",
				},
				&cli.Float64Flag{
					Name:  "step",
					Value: 5.5,
					Usage: "grey levels per palette index",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				mode, err := clean.ParseMode(c.String("mode"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				m, err := newMapGrid(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := m.Clean(c.Args().Get(0), c.Args().Get(1), c.String("palette"), mode, c.Float64("step")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "diff",
			Usage:       "Compare two grid files",
			Description: "",
			ArgsUsage:   "GRID GRID",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newMapGrid(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				i, err := m.Compare(c.Args().Get(0), c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if i < 0 {
					fmt.Println("Arrays are equal")
					return nil
				}

				return cli.NewExitError(fmt.Sprintf("Index %d differs", i), 1)
			},
		},
		{
			Name:        "batch",
			Usage:       "Export a grid for every population map in a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Usage: "resolution scale",
				},
				&cli.BoolFlag{
					Name:  "compress",
					Usage: "write zstd compressed grids",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newMapGrid(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				if err := m.Batch(c.Args().Get(0), c.Args().Get(1), c.Bool("compress")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "classify",
			Usage:       "Classify a colour against a palette",
			Description: "",
			ArgsUsage:   "#RRGGBB",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "palette",
					Required: true,
					Usage:    "palette name (" + strings.Join(palette.Names(), ", ") + ")",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, ok := palette.ByName(c.String("palette"))
				if !ok {
					return cli.NewExitError(fmt.Sprintf("unknown palette %q", c.String("palette")), 1)
				}

				col, err := colorful.Hex(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				match := p.Classify(col)
				ref, _ := colorful.MakeColor(match.Color)
				fmt.Printf("%s\t%d\t%s\t%d\t%.2f\n", c.Args().First(), match.Index, ref.Hex(), match.Value, match.Distance)

				return nil
			},
		},
		{
			Name:        "survey",
			Usage:       "List the dominant colours of a painted layer",
			Description: "Colours further than the tolerance from every palette entry are marked with *.",
			ArgsUsage:   "IMAGE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "palette",
					Required: true,
					Usage:    "palette name (" + strings.Join(palette.Names(), ", ") + ")",
				},
				&cli.IntFlag{
					Name:  "colors",
					Value: 32,
					Usage: "maximum number of colours",
				},
				&cli.Float64Flag{
					Name:  "tolerance",
					Value: 10,
					Usage: "maximum distance to a palette entry",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := newMapGrid(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				swatches, err := m.Survey(c.Args().First(), c.String("palette"), c.Int("colors"), c.Float64("tolerance"))
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				for _, s := range swatches {
					mark := " "
					if !s.Known {
						mark = "*"
					}
					fmt.Printf("%s%s\t%d\t%d\t%.2f\n", mark, s.Hex(), s.Pixels, s.Match.Value, s.Match.Distance)
				}

				return nil
			},
		},
		{
			Name:  "catalog",
			Usage: "Store and retrieve grids by name",
			Subcommands: []*cli.Command{
				{
					Name:      "add",
					Usage:     "Add a grid file to the catalog",
					ArgsUsage: "NAME GRID",
					Action: func(c *cli.Context) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						g, err := grid.ReadFile(c.Args().Get(1))
						if err != nil {
							return cli.NewExitError(err, 1)
						}

						cat, err := catalog.Open(c.String("db"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer cat.Close()

						if err := cat.Put(c.Args().Get(0), g); err != nil {
							return cli.NewExitError(err, 1)
						}
						newLogger(c).Printf("Added \"%s\" as %s\n", c.Args().Get(1), c.Args().Get(0))

						return nil
					},
				},
				{
					Name:      "extract",
					Usage:     "Write a catalogued grid to a file",
					ArgsUsage: "NAME GRID",
					Action: func(c *cli.Context) error {
						if c.NArg() < 2 {
							cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
						}

						cat, err := catalog.Open(c.String("db"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer cat.Close()

						g, err := cat.Get(c.Args().Get(0))
						if err != nil {
							return cli.NewExitError(err, 1)
						}

						if err := grid.WriteFile(c.Args().Get(1), g); err != nil {
							return cli.NewExitError(err, 1)
						}

						return nil
					},
				},
				{
					Name:  "list",
					Usage: "List catalogued grids",
					Action: func(c *cli.Context) error {
						cat, err := catalog.Open(c.String("db"))
						if err != nil {
							return cli.NewExitError(err, 1)
						}
						defer cat.Close()

						entries, err := cat.List()
						if err != nil {
							return cli.NewExitError(err, 1)
						}

						for _, e := range entries {
							fmt.Printf("%s\t%dx%dx%d\t%s\n", e.Name, e.Width, e.Height, e.Bands, e.SHA1)
						}

						return nil
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

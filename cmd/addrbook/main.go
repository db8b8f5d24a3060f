package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/emersion/go-message/mail"
	"github.com/larkmail/go-addrbook"
	"github.com/larkmail/go-addrbook/rfc822"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "addrbook",
		Usage: "manage and expand mail aliases",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "load aliases from `FILE` instead of $alias_file",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "read options from `FILE`",
			},
			&cli.StringSliceFlag{
				Name:    "alias",
				Aliases: []string{"A"},
				Usage:   "print the expansion of alias `NAME` and exit",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},

		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				logrus.SetLevel(logrus.DebugLevel)
			}

			return nil
		},

		Commands: []*cli.Command{
			listCommand(),
			scanCommand(),
			importCommand(),
			exportCommand(),
		},

		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("addrbook failed")
	}
}

// run handles the top-level -A mode: expand each named alias and print
// the result, one list per line.
func run(c *cli.Context) error {
	names := c.StringSlice("alias")

	if len(names) == 0 {
		return cli.ShowAppHelp(c)
	}

	book, reg, err := setup(c)
	if err != nil {
		return err
	}

	for _, name := range names {
		list := book.Lookup(name)

		if list == nil {
			return cli.Exit(fmt.Sprintf("addrbook: no alias %q", name), 1)
		}

		expanded := list.Copy()

		book.ExpandAliases(reg, &expanded)

		fmt.Println(expanded.Write(false))
	}

	return nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "print the alias book, one formatted row per alias",

		Action: func(c *cli.Context) error {
			book, reg, err := setup(c)
			if err != nil {
				return err
			}

			view := addrbook.NewView(book, reg)
			defer view.Close()

			for _, row := range view.Rows() {
				if !row.Visible {
					continue
				}

				fmt.Println(addrbook.FormatRow(row, reg.AliasFormat()))
			}

			return nil
		},
	}
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan-message",
		Usage: "read a message on stdin and suggest an alias for its sender",

		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "save",
				Usage: "append the new alias to the alias file",
			},
		},

		Action: func(c *cli.Context) error {
			book, reg, err := setup(c)
			if err != nil {
				return err
			}

			mr, err := mail.CreateReader(os.Stdin)
			if err != nil {
				return cli.Exit(fmt.Sprintf("addrbook: parse message: %v", err), 1)
			}
			defer mr.Close()

			froms, err := mr.Header.AddressList("From")
			if err != nil || len(froms) == 0 {
				return cli.Exit("addrbook: message has no usable From address", 1)
			}

			sender := &rfc822.Address{Personal: froms[0].Name, Mailbox: froms[0].Address}

			if reg.ReverseAlias() {
				if known := book.Reverse(sender.Mailbox); known != nil {
					fmt.Printf("%s is already aliased as %s\n", sender.Mailbox, rfc822.AddressList{known}.Write(true))
					return nil
				}
			}

			a := &addrbook.Alias{
				Name: guessName(sender.Mailbox),
				Addr: rfc822.AddressList{sender},
			}

			if !c.Bool("save") {
				fmt.Print(addrbook.FormatRecord(a, reg))
				return nil
			}

			if err := book.Add(a); err != nil {
				return cli.Exit(fmt.Sprintf("addrbook: %v", err), 1)
			}

			if err := addrbook.SaveAlias(a, addrbook.ExpandPath(reg.AliasFile()), reg); err != nil {
				return cli.Exit(fmt.Sprintf("addrbook: %v", err), 1)
			}

			fmt.Printf("Added alias %s\n", a.Name)

			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "import vCards into the alias file",
		ArgsUsage: "[VCF]",

		Action: func(c *cli.Context) error {
			book, reg, err := setup(c)
			if err != nil {
				return err
			}

			in := os.Stdin

			if path := c.Args().First(); path != "" {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()

				in = f
			}

			n := book.Len()

			added, err := addrbook.ImportVCards(book, in)
			if err != nil {
				return err
			}

			path := addrbook.ExpandPath(reg.AliasFile())

			for _, a := range book.Aliases()[n:] {
				if err := addrbook.SaveAlias(a, path, reg); err != nil {
					return err
				}
			}

			fmt.Printf("Imported %d aliases\n", added)

			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "export the alias book as vCards",
		ArgsUsage: "[VCF]",

		Action: func(c *cli.Context) error {
			book, _, err := setup(c)
			if err != nil {
				return err
			}

			out := os.Stdout

			if path := c.Args().First(); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()

				out = f
			}

			return addrbook.ExportVCards(book, out)
		},
	}
}

// setup builds the bus, registry and book shared by every mode, loading
// the config file and the alias file when present. A missing alias file
// just means an empty book.
func setup(c *cli.Context) (*addrbook.Book, *addrbook.Registry, error) {
	bus := addrbook.NewBus()

	reg := addrbook.NewRegistry(bus)

	if path := c.String("config"); path != "" {
		if err := reg.ReadFile(path); err != nil {
			return nil, nil, err
		}
	}

	if path := c.String("file"); path != "" {
		reg.Set(addrbook.OptAliasFile, path)
	}

	book := addrbook.New(bus)

	path := addrbook.ExpandPath(reg.AliasFile())

	if err := addrbook.LoadFile(book, path, reg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, err
	}

	return book, reg, nil
}

func guessName(mailbox string) string {
	if at := strings.IndexByte(mailbox, '@'); at >= 0 {
		mailbox = mailbox[:at]
	}

	return addrbook.FixName(mailbox)
}

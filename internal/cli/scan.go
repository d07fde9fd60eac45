package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/emutalk/dolphintalk/internal/options"
	"github.com/emutalk/dolphintalk/internal/scan"
)

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Search console memory for text to find dialogue buffer addresses",
		ArgsUsage: "<text>",
		Action:    scanAction,
	}
}

func scanAction(c *cli.Context) error {
	opts := options.Scan{
		Needle: strings.Join(c.Args().Slice(), " "),
	}
	if opts.Needle == "" {
		return cli.Exit("no text given, pass the text to search for as argument", 1)
	}

	sess, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.close()

	matches, err := scan.New(sess.translator, sess.logger).Find(opts.Needle)
	if err != nil {
		return cli.Exit(fmt.Sprintf("scanning for %q: %v", opts.Needle, err), 1)
	}

	for _, match := range matches {
		fmt.Printf("0x%08X  %s\n", match.Address, match.Context)
	}
	fmt.Printf("%d match(es) for %q\n", len(matches), opts.Needle)
	return nil
}

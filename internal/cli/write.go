package cli

import (
	"fmt"
	"strings"

	"github.com/retroenv/retrogolib/log"
	"github.com/urfave/cli/v2"

	"github.com/emutalk/dolphintalk/internal/codec"
	"github.com/emutalk/dolphintalk/internal/options"
)

func writeCommand() *cli.Command {
	return &cli.Command{
		Name:      "write",
		Usage:     "Encode tagged text and write it to the dialogue buffer",
		ArgsUsage: "<tagged text>",
		Action:    writeAction,
	}
}

func writeAction(c *cli.Context) error {
	opts := options.Write{
		Text: strings.Join(c.Args().Slice(), " "),
	}
	if opts.Text == "" {
		return cli.Exit("no text given, pass the tagged text to write as argument", 1)
	}

	sess, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.close()

	encoded := codec.New(sess.logger).Encode(opts.Text)
	if err := sess.translator.Write(sess.opts.Address, encoded); err != nil {
		return cli.Exit(fmt.Sprintf("writing dialogue at 0x%08X: %v", sess.opts.Address, err), 1)
	}

	sess.logger.Info("dialogue written",
		log.Hex("address", sess.opts.Address),
		log.Int("bytes", len(encoded)))
	return nil
}

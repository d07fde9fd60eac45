package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/emutalk/dolphintalk/internal/codec"
	"github.com/emutalk/dolphintalk/internal/options"
)

// dialogueEndMarkers terminate a one-shot read: the end-conversation
// code and the continue-after-pause code.
var dialogueEndMarkers = [][]byte{
	{codec.PrefixByte, 0x00},
	{codec.PrefixByte, 0x0D},
}

const readChunkSize = 256

func readCommand() *cli.Command {
	return &cli.Command{
		Name:  "read",
		Usage: "Read and decode the dialogue buffer once",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-size",
				Usage: "maximum number of bytes to read",
				Value: options.NewRead().MaxSize,
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "print a hex dump of the raw bytes",
			},
		},
		Action: readAction,
	}
}

func readAction(c *cli.Context) error {
	sess, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.close()

	opts := options.NewRead()
	opts.MaxSize = c.Int("max-size")
	opts.Dump = c.Bool("dump")

	raw, err := readDialogue(sess.translator, sess.opts.Address, opts.MaxSize)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading dialogue at 0x%08X: %v", sess.opts.Address, err), 1)
	}

	if opts.Dump {
		hexDump(os.Stdout, sess.opts.Address, raw)
		fmt.Println()
	}
	fmt.Println(codec.New(sess.logger).Decode(raw))
	return nil
}

// dialogueMemory reads translated console memory.
type dialogueMemory interface {
	Read(address uint64, size int) ([]byte, error)
}

// readDialogue reads the dialogue buffer in chunks until an end marker
// appears or maxSize is reached. Markers spanning a chunk boundary are
// found because the accumulated buffer is searched after every chunk.
func readDialogue(mem dialogueMemory, address uint64, maxSize int) ([]byte, error) {
	var buf []byte
	for len(buf) < maxSize {
		size := min(readChunkSize, maxSize-len(buf))
		chunk, err := mem.Read(address+uint64(len(buf)), size)
		if err != nil {
			if len(buf) > 0 {
				break
			}
			return nil, err
		}
		if len(chunk) == 0 {
			break
		}
		buf = append(buf, chunk...)

		for _, marker := range dialogueEndMarkers {
			if idx := bytes.Index(buf, marker); idx >= 0 {
				return buf[:idx+len(marker)], nil
			}
		}
		if len(chunk) < size {
			break
		}
	}
	return buf, nil
}

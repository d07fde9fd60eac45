package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected uint64
		wantErr  bool
	}{
		{input: "0x81298360", expected: 0x81298360},
		{input: "81298360", expected: 0x81298360},
		{input: "0X8129A3EA", expected: 0x8129A3EA},
		{input: "nothex", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			address, err := parseAddress(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, address)
		})
	}
}

// chunkedMemory returns its content in slices, mimicking the chunked
// translated reads.
type chunkedMemory struct {
	content []byte
	err     error
}

func (m *chunkedMemory) Read(address uint64, size int) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	offset := int(address - 0x81298360)
	if offset >= len(m.content) {
		return nil, nil
	}
	end := min(offset+size, len(m.content))
	return m.content[offset:end], nil
}

func TestReadDialogue(t *testing.T) {
	t.Parallel()

	t.Run("stops at end conversation marker", func(t *testing.T) {
		t.Parallel()

		content := append([]byte("Hello"), 0x7F, 0x00)
		content = append(content, []byte("stale data beyond the end")...)
		mem := &chunkedMemory{content: content}

		raw, err := readDialogue(mem, 0x81298360, 4096)
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("% X", append([]byte("Hello"), 0x7F, 0x00)), fmt.Sprintf("% X", raw))
	})

	t.Run("stops at continue marker", func(t *testing.T) {
		t.Parallel()

		content := append([]byte("Wait"), 0x7F, 0x0D)
		content = append(content, 0xFF, 0xFF)
		mem := &chunkedMemory{content: content}

		raw, err := readDialogue(mem, 0x81298360, 4096)
		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("% X", append([]byte("Wait"), 0x7F, 0x0D)), fmt.Sprintf("% X", raw))
	})

	t.Run("marker spanning chunk boundary", func(t *testing.T) {
		t.Parallel()

		content := make([]byte, readChunkSize-1)
		for i := range content {
			content[i] = 'a'
		}
		content = append(content, 0x7F, 0x00)
		mem := &chunkedMemory{content: content}

		raw, err := readDialogue(mem, 0x81298360, 4096)
		assert.NoError(t, err)
		assert.Len(t, raw, readChunkSize+1)
	})

	t.Run("max size without marker", func(t *testing.T) {
		t.Parallel()

		content := make([]byte, 1024)
		mem := &chunkedMemory{content: content}

		raw, err := readDialogue(mem, 0x81298360, 512)
		assert.NoError(t, err)
		assert.Len(t, raw, 512)
	})

	t.Run("read failure surfaces", func(t *testing.T) {
		t.Parallel()

		mem := &chunkedMemory{err: errors.New("access denied")}

		_, err := readDialogue(mem, 0x81298360, 4096)
		assert.Error(t, err)
	})
}

func TestHexDump(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	data := append([]byte("Hello, villager!"), 0x7F, 0x00, 0xCD)
	hexDump(&b, 0x81298360, data)

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "81298360  48 65 6C 6C 6F 2C 20 76  69 6C 6C 61 67 65 72 21"))
	assert.Contains(t, lines[0], "|Hello, villager!|")
	assert.True(t, strings.HasPrefix(lines[1], "81298370  7F 00 CD"))
	assert.Contains(t, lines[1], "|...|")
}

func TestAppCommands(t *testing.T) {
	t.Parallel()

	app := App("1.0.0")
	assert.Equal(t, "dolphintalk", app.Name)

	names := make([]string, 0, len(app.Commands))
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, "read,write,watch,scan", strings.Join(names, ","))
}

package gcode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Parser reads blocks from G-code text, one per line. Comments, line
// numbers and checksums are dropped.
type Parser struct {
	br   *bufio.Reader
	line int
}

func NewParser(r io.Reader) *Parser {
	if br, ok := r.(*bufio.Reader); ok {
		return &Parser{br: br}
	}

	return &Parser{br: bufio.NewReader(r)}
}

var (
	rxLine    = regexp.MustCompile(`^([A-Z][+\-]?[0-9]*\.?[0-9]+)+$`)
	rxWord    = regexp.MustCompile(`([A-Z])([+\-]?[0-9]*\.?[0-9]+)`)
	rxComment = regexp.MustCompile(`\([^)]*\)`)
)

// clean strips everything the firmware would ignore from a line.
func clean(s string) string {
	s = strings.SplitN(s, ";", 2)[0]
	if i := strings.IndexByte(s, '*'); i >= 0 {
		s = s[:i]
	}
	s = rxComment.ReplaceAllString(s, "")
	s = strings.Replace(s, " ", "", -1)
	s = strings.Replace(s, "\t", "", -1)
	s = strings.TrimSpace(s)
	return strings.ToUpper(s)
}

func (p *Parser) Read() (Block, error) {
	for {
		s, err := p.br.ReadString('\n')
		if err == io.EOF && s != "" {
			err = nil
		}
		if err != nil {
			return nil, err
		}
		p.line++

		s = clean(s)
		if s == "" {
			continue
		}
		if !rxLine.MatchString(s) {
			return nil, fmt.Errorf("line %d: invalid or unhandled line: %s", p.line, s)
		}

		var b Block
		for _, m := range rxWord.FindAllStringSubmatch(s, -1) {
			if m[1] == "N" {
				continue
			}
			arg, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", p.line, err)
			}
			b = append(b, Word{W: m[1][0], Arg: arg})
		}
		if len(b) == 0 {
			// line number only
			continue
		}

		return b, nil
	}
}

// Parse reads every block in data.
func Parse(data string) ([]Block, error) {
	p := NewParser(bytes.NewBufferString(data))
	var b []Block
	for {
		bl, err := p.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		b = append(b, bl)
	}
	return b, nil
}

// MustParse is like Parse but panics on error.
func MustParse(data string) []Block {
	b, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Package hexdump renders target-memory windows as annotated hex
// dumps: colored offset/hex/ASCII columns plus optional pointer
// detection against the target's region map.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"memprobe/memory/regionmap"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Options customizes the dump layout and coloring.
type Options struct {
	// BytesPerLine is the number of bytes rendered per line.
	BytesPerLine int

	// GroupSize groups bytes in the hex column (1, 2, 4 or 8).
	GroupSize int

	// ShowASCII toggles the ASCII column.
	ShowASCII bool

	// ShowOffset toggles the address column.
	ShowOffset bool

	// StartOffset is the virtual address of data[0]; each line's
	// address column counts up from it.
	StartOffset uint64

	// OffsetWidth is the address column width in hex digits.
	OffsetWidth int

	OffsetColor       coloransi.ColorCode
	HexColor          coloransi.ColorCode
	ASCIIColor        coloransi.ColorCode
	NonPrintableColor coloransi.ColorCode
	ZeroColor         coloransi.ColorCode

	// HighlightPattern marks every occurrence of these bytes.
	HighlightPattern []byte
	HighlightColor   coloransi.ColorCode
	HighlightBGColor coloransi.ColorCode

	// MaxLines caps the output; 0 means unlimited.
	MaxLines int

	// ShowPointers annotates 8-byte values that land inside a mapped
	// region of Regions. Requires Regions.
	ShowPointers bool
	Regions      []regionmap.Region
}

// DefaultOptions returns the standard 16-byte-per-line layout.
func DefaultOptions() Options {
	return Options{
		BytesPerLine:      16,
		GroupSize:         1,
		ShowASCII:         true,
		ShowOffset:        true,
		OffsetWidth:       8,
		OffsetColor:       coloransi.Cyan,
		HexColor:          coloransi.Green,
		ASCIIColor:        coloransi.White,
		NonPrintableColor: coloransi.BrightBlack,
		ZeroColor:         coloransi.BrightBlack,
		HighlightColor:    coloransi.Yellow,
		HighlightBGColor:  coloransi.Black,
	}
}

// Dump renders data with the given options.
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpTo(&buffer, data, options)
	return buffer.String()
}

// DumpBytes renders data with DefaultOptions.
func DumpBytes(data []byte) string {
	return Dump(data, DefaultOptions())
}

// DumpWithOffset renders data with its address column starting at the
// given virtual address.
func DumpWithOffset(data []byte, startOffset uint64) string {
	options := DefaultOptions()
	options.StartOffset = startOffset
	options.OffsetWidth = 12
	return Dump(data, options)
}

// DumpWithHighlight renders data with every occurrence of pattern
// highlighted.
func DumpWithHighlight(data []byte, pattern []byte) string {
	options := DefaultOptions()
	options.HighlightPattern = pattern
	return Dump(data, options)
}

// DumpWithRegions renders data starting at startOffset, annotating
// qword values that point into a mapped region. Zero bytes render dark,
// non-printables as red dots.
func DumpWithRegions(data []byte, startOffset uint64, regions []regionmap.Region) string {
	options := DefaultOptions()
	options.StartOffset = startOffset
	options.OffsetWidth = 12
	options.ShowPointers = true
	options.Regions = regions
	options.NonPrintableColor = coloransi.Red
	return Dump(data, options)
}

// DumpTo writes the rendered dump to writer.
func DumpTo(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 {
		options.GroupSize = 1
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		formatLine(writer, data[offset:end], options.StartOffset+uint64(offset), options)
		lineCount++
	}
}

func formatLine(writer io.Writer, line []byte, addr uint64, options Options) {
	if options.ShowOffset {
		offsetStr := fmt.Sprintf("%0"+strconv.Itoa(options.OffsetWidth)+"x", addr)
		fmt.Fprint(writer, coloransi.Foreground(options.OffsetColor, offsetStr), "  ")
	}

	hexParts := formatHexValues(line, options)

	// Mid-line divider once the line reaches past half of BytesPerLine.
	useSplit := options.BytesPerLine >= 8 && len(line) > options.BytesPerLine/2

	groupsPerLine := options.BytesPerLine / options.GroupSize
	if groupsPerLine == 0 {
		groupsPerLine = 1
	}
	leftGroups := groupsPerLine / 2
	if leftGroups > len(hexParts) {
		leftGroups = len(hexParts)
	}

	if useSplit && leftGroups > 0 && leftGroups < len(hexParts) {
		fmt.Fprint(writer, strings.Join(hexParts[:leftGroups], " "), " | ", strings.Join(hexParts[leftGroups:], " "))
	} else {
		fmt.Fprint(writer, strings.Join(hexParts, " "))
	}

	// Pad short lines so the ASCII column stays aligned with full ones.
	if options.BytesPerLine > len(line) {
		fullGroups := (options.BytesPerLine + options.GroupSize - 1) / options.GroupSize
		curGroups := (len(line) + options.GroupSize - 1) / options.GroupSize
		missingBytes := options.BytesPerLine - len(line)

		deltaSpaces := (fullGroups - 1) - (curGroups - 1)
		if curGroups == 0 {
			deltaSpaces = fullGroups - 1
		}

		pipeFull := 0
		if options.BytesPerLine >= 8 {
			pipeFull = 3
		}
		pipeCur := 0
		if useSplit {
			pipeCur = 3
		}

		padding := missingBytes*2 + deltaSpaces + (pipeFull - pipeCur)
		if padding > 0 {
			fmt.Fprint(writer, strings.Repeat(" ", padding))
		}
	}

	if options.ShowASCII {
		fmt.Fprint(writer, " | ")
		if useSplit {
			midPoint := options.BytesPerLine / 2
			formatASCII(writer, line[:midPoint], options)
			fmt.Fprint(writer, " ")
			formatASCII(writer, line[midPoint:], options)
		} else {
			formatASCII(writer, line, options)
		}
	}

	// Qword pointer preview at byte 0 and byte 8.
	if options.ShowPointers && len(line) >= 8 {
		fmt.Fprint(writer, " | ")
		ptr := binary.LittleEndian.Uint64(line[:8])
		if pointsIntoRegion(ptr, options.Regions) {
			fmt.Fprintf(writer, "%s ", coloransi.Foreground(coloransi.Yellow, fmt.Sprintf("0x%x", ptr)))
		}
		if len(line) >= 16 {
			ptr2 := binary.LittleEndian.Uint64(line[8:16])
			if pointsIntoRegion(ptr2, options.Regions) {
				fmt.Fprint(writer, coloransi.Foreground(coloransi.Yellow, fmt.Sprintf("0x%x", ptr2)))
			}
		}
	}

	fmt.Fprintln(writer)
}

func formatASCII(writer io.Writer, line []byte, options Options) {
	for i, b := range line {
		c := rune(b)

		highlighted := false
		if len(options.HighlightPattern) > 0 && i+len(options.HighlightPattern) <= len(line) {
			highlighted = bytes.Equal(line[i:i+len(options.HighlightPattern)], options.HighlightPattern)
		}

		switch {
		case highlighted:
			fmt.Fprint(writer, coloransi.Color(options.HighlightColor, options.HighlightBGColor, string(c)))
		case b == 0:
			fmt.Fprint(writer, coloransi.Foreground(options.ZeroColor, "."))
		case !unicode.IsPrint(c):
			fmt.Fprint(writer, coloransi.Foreground(options.NonPrintableColor, "."))
		default:
			fmt.Fprint(writer, coloransi.Foreground(options.ASCIIColor, string(c)))
		}
	}
}

func formatHexValues(line []byte, options Options) []string {
	var result []string
	var group []string

	for i, b := range line {
		hexValue := fmt.Sprintf("%02x", b)
		color := options.HexColor
		if b == 0 {
			color = options.ZeroColor
		}

		highlighted := false
		if len(options.HighlightPattern) > 0 && i+len(options.HighlightPattern) <= len(line) {
			if bytes.Equal(line[i:i+len(options.HighlightPattern)], options.HighlightPattern) {
				highlighted = true
				color = options.HighlightColor
			}
		}

		if highlighted {
			group = append(group, coloransi.Color(color, options.HighlightBGColor, hexValue))
		} else {
			group = append(group, coloransi.Foreground(color, hexValue))
		}

		if (i+1)%options.GroupSize == 0 || i == len(line)-1 {
			result = append(result, strings.Join(group, ""))
			group = nil
		}
	}

	return result
}

// pointsIntoRegion reports whether ptr lands inside any mapped region.
func pointsIntoRegion(ptr uint64, regions []regionmap.Region) bool {
	for _, r := range regions {
		if r.Contains(ptr) {
			return true
		}
	}
	return false
}

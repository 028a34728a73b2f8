// Package parser splits a generation response into named files.
//
// A response multiplexes files with the delimiter grammar
//
//	<<<<FILE: path/to/name.ext>>>>
//	content
//	<<<<ENDFILE>>>>
//
// Records are located left to right and never overlap. A response that
// yields no records degrades to a single output.txt record holding the
// whole response, so callers always have something to show.
package parser

import (
	"strings"

	"github.com/bizmatters/agent-builder/omniverse-configurator/internal/models"
)

// Delimiter tokens of the file grammar.
const (
	FileOpen    = "<<<<FILE:"
	HeaderClose = ">>>>"
	FileClose   = "<<<<ENDFILE>>>>"
)

// Result is the outcome of scanning one response.
type Result struct {
	Files []models.GeneratedFile
	// Fallback is set when no record matched and Files holds the
	// synthetic output.txt record.
	Fallback bool
	// Skipped counts matched records dropped for an empty name or content.
	Skipped int
}

// Parse returns the files of a response in order of appearance. It never
// returns an empty list.
func Parse(text string) []models.GeneratedFile {
	return Scan(text).Files
}

// Scan walks the response once and reports how it was split.
func Scan(text string) Result {
	var res Result
	pos := 0
	for pos < len(text) {
		open := strings.Index(text[pos:], FileOpen)
		if open < 0 {
			break
		}
		headerStart := pos + open
		nameStart := headerStart + len(FileOpen)

		nameLen := strings.Index(text[nameStart:], HeaderClose)
		if nameLen < 0 {
			break
		}
		rawName := text[nameStart : nameStart+nameLen]
		if strings.ContainsAny(rawName, "\r\n") {
			// Header names are single-line; retry from the next byte.
			pos = headerStart + 1
			continue
		}

		bodyStart := nameStart + nameLen + len(HeaderClose)
		bodyLen := strings.Index(text[bodyStart:], FileClose)
		if bodyLen < 0 {
			break
		}
		pos = bodyStart + bodyLen + len(FileClose)

		name := strings.TrimSpace(rawName)
		content := strings.TrimSpace(text[bodyStart : bodyStart+bodyLen])
		if name == "" || content == "" {
			res.Skipped++
			continue
		}
		res.Files = append(res.Files, models.GeneratedFile{Name: name, Content: content})
	}

	if len(res.Files) == 0 {
		res.Fallback = true
		res.Files = []models.GeneratedFile{{Name: models.FallbackFileName, Content: text}}
	}
	return res
}

// Format renders files back into the delimiter grammar.
func Format(files []models.GeneratedFile) string {
	var b strings.Builder
	for i, f := range files {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FileOpen)
		b.WriteString(" ")
		b.WriteString(f.Name)
		b.WriteString(HeaderClose)
		b.WriteString("\n")
		b.WriteString(f.Content)
		b.WriteString("\n")
		b.WriteString(FileClose)
	}
	return b.String()
}

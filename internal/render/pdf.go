package render

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// WritePDF renders the Markdown answer into a minimal A4 PDF, turning
// Markdown links into clickable PDF links. Layout is deliberately simple:
// headings get a bold larger font, everything else flows as body text.
func WritePDF(markdown string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasPrefix(line, "#") {
			level := 0
			for level < len(line) && line[level] == '#' {
				level++
			}
			text := strings.TrimSpace(line[level:])
			if text == "" {
				continue
			}
			size := 14.0
			if level >= 2 {
				size = 12.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		writeLineWithLinks(pdf, line)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}

func writeLineWithLinks(pdf *gofpdf.Fpdf, line string) {
	matches := mdLinkRe.FindAllStringSubmatchIndex(line, -1)
	if len(matches) == 0 {
		pdf.MultiCell(0, 5, line, "", "L", false)
		return
	}
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			pdf.Write(5, line[pos:m[0]])
		}
		text := line[m[2]:m[3]]
		url := line[m[4]:m[5]]
		pdf.WriteLinkString(5, text, url)
		pos = m[1]
	}
	if pos < len(line) {
		pdf.Write(5, line[pos:])
	}
	pdf.Ln(5)
}

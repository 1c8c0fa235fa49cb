// Package notes encodes and decodes the structured ride metadata that older
// records pack into a trip's free-text notes field: flight details, an
// organization passenger manifest, and a leading status marker.
//
// Trips now carry these as first-class fields. The codec is kept to lift data
// out of legacy notes on ingest and to render the legacy form for consumers
// that still parse it.
//
// Layout produced by Encode, every section optional:
//
//	STATUS:<status>
//
//	<free text>
//	Flight: <number>
//	Airline: <airline>
//	Terminal: <terminal>
//
//	Passengers:
//	<name>
//	<name>
package notes

import (
	"fmt"
	"strings"

	"github.com/ahmedNJ467/peace-keeper-dashboard-sub002/internal/domain"
)

const (
	statusPrefix    = "STATUS:"
	passengerMarker = "Passengers:"
	flightLabel     = "Flight:"
	airlineLabel    = "Airline:"
	terminalLabel   = "Terminal:"
)

// Annotated is the decoded form of a notes field.
// Status is empty when no marker was present; Flight is nil when no flight
// line was present.
type Annotated struct {
	Status     domain.TripStatus
	Text       string
	Flight     *domain.FlightInfo
	Passengers []string
}

// CodecWarning describes malformed content that Decode skipped.
// It is informational and never fails a read.
type CodecWarning struct {
	Line   int // 1-based line in the input, 0 when not line-specific
	Reason string
}

func (w CodecWarning) Error() string {
	if w.Line == 0 {
		return "notes: " + w.Reason
	}
	return fmt.Sprintf("notes: line %d: %s", w.Line, w.Reason)
}

// Encode renders a into the legacy single-field form.
// Sections appear in a fixed order so Decode followed by Encode is stable.
func Encode(a Annotated) string {
	var b strings.Builder

	if a.Status != "" {
		b.WriteString(statusPrefix)
		b.WriteString(string(a.Status))
		b.WriteString("\n\n")
	}

	body := strings.TrimSpace(a.Text)
	if lines := flightLines(a.Flight); len(lines) > 0 {
		if body != "" {
			body += "\n"
		}
		body += strings.Join(lines, "\n")
	}

	if names := cleanNames(a.Passengers); len(names) > 0 {
		if body != "" {
			body += "\n\n"
		}
		body += passengerMarker + "\n" + strings.Join(names, "\n")
	}

	b.WriteString(body)
	return b.String()
}

// Decode extracts the structured pieces from raw notes.
// It never fails: content it cannot interpret is left in Text or dropped,
// and reported through the returned warnings.
func Decode(raw string) (Annotated, []CodecWarning) {
	var (
		out      Annotated
		warnings []CodecWarning
	)

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	offset := 0 // number of input lines consumed by the status prefix

	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[0]), statusPrefix) {
		value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[0]), statusPrefix))
		status := domain.TripStatus(value)
		if status.Valid() {
			out.Status = status
		} else {
			warnings = append(warnings, CodecWarning{Line: 1, Reason: fmt.Sprintf("unknown status %q in prefix", value)})
		}
		offset = 1
		if len(lines) > 1 {
			if strings.TrimSpace(lines[1]) == "" {
				offset = 2
			} else {
				warnings = append(warnings, CodecWarning{Line: 2, Reason: "status prefix not followed by a blank line"})
			}
		}
	}

	var (
		kept        []string
		flight      domain.FlightInfo
		sawFlight   bool
		inManifest  bool
		sawManifest bool
	)
	for i := offset; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)
		lineNo := i + 1

		if inManifest {
			if trimmed == "" {
				inManifest = false
				continue
			}
			out.Passengers = append(out.Passengers, trimmed)
			continue
		}

		if trimmed == passengerMarker {
			if sawManifest {
				warnings = append(warnings, CodecWarning{Line: lineNo, Reason: "duplicate passenger block"})
			}
			sawManifest = true
			inManifest = true
			// Encode separates the block from the text with one blank line.
			if n := len(kept); n > 0 && strings.TrimSpace(kept[n-1]) == "" {
				kept = kept[:n-1]
			}
			continue
		}

		if label, value, ok := flightField(trimmed); ok {
			if value == "" {
				warnings = append(warnings, CodecWarning{Line: lineNo, Reason: fmt.Sprintf("empty %s line", label)})
				continue
			}
			if !setFlightField(&flight, label, value) {
				warnings = append(warnings, CodecWarning{Line: lineNo, Reason: fmt.Sprintf("duplicate %s line", label)})
				continue
			}
			sawFlight = true
			continue
		}

		kept = append(kept, line)
	}

	if sawManifest && len(out.Passengers) == 0 {
		warnings = append(warnings, CodecWarning{Reason: "passenger block has no names"})
	}
	if sawFlight {
		out.Flight = &flight
	}
	out.Text = strings.TrimSpace(strings.Join(kept, "\n"))

	return out, warnings
}

// flightLines renders the non-empty flight fields in label order.
func flightLines(f *domain.FlightInfo) []string {
	if f == nil {
		return nil
	}
	var lines []string
	if v := strings.TrimSpace(f.Number); v != "" {
		lines = append(lines, flightLabel+" "+v)
	}
	if v := strings.TrimSpace(f.Airline); v != "" {
		lines = append(lines, airlineLabel+" "+v)
	}
	if v := strings.TrimSpace(f.Terminal); v != "" {
		lines = append(lines, terminalLabel+" "+v)
	}
	return lines
}

// flightField matches one of the labeled flight lines.
func flightField(line string) (label, value string, ok bool) {
	for _, l := range []string{flightLabel, airlineLabel, terminalLabel} {
		if strings.HasPrefix(line, l) {
			return l, strings.TrimSpace(strings.TrimPrefix(line, l)), true
		}
	}
	return "", "", false
}

// setFlightField stores value under label. It returns false when the field
// was already set; the first occurrence wins.
func setFlightField(f *domain.FlightInfo, label, value string) bool {
	var dst *string
	switch label {
	case flightLabel:
		dst = &f.Number
	case airlineLabel:
		dst = &f.Airline
	case terminalLabel:
		dst = &f.Terminal
	}
	if *dst != "" {
		return false
	}
	*dst = value
	return true
}

// cleanNames trims names and drops blanks; a blank line would end the block.
func cleanNames(names []string) []string {
	var out []string
	for _, n := range names {
		if t := strings.TrimSpace(n); t != "" {
			out = append(out, t)
		}
	}
	return out
}

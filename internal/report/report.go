package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/FranksOps/airwave/internal/mirror"
	"github.com/FranksOps/airwave/internal/station"
)

// Format selects how a result is rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ParseFormat maps a flag value to a Format. Blank selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCSV, FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("report: unknown format %q", s)
	}
}

// Write renders res in the given format.
func Write(w io.Writer, format Format, res station.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatCSV:
		return WriteCSV(w, res)
	case FormatHTML:
		return WriteHTML(w, res)
	case FormatText, "":
		return WriteText(w, res)
	default:
		return fmt.Errorf("report: unknown format %q", format)
	}
}

// WriteJSON writes the result in the same shape the HTTP API serves.
func WriteJSON(w io.Writer, res station.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"id",
	"name",
	"stream_url",
	"country_code",
	"codec",
	"bitrate",
	"tags",
	"homepage",
	"favicon",
}

// WriteCSV writes one row per station, preceded by a header row.
func WriteCSV(w io.Writer, res station.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	for _, s := range res.Stations {
		bitrate := ""
		if s.Bitrate != nil {
			bitrate = strconv.Itoa(*s.Bitrate)
		}
		row := []string{
			s.ID,
			s.Name,
			s.StreamURL,
			s.CountryCode,
			s.Codec,
			bitrate,
			strings.Join(s.Tags, ";"),
			s.Homepage,
			s.Favicon,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

var funcs = template.FuncMap{
	"bitrate": func(b *int) string {
		if b == nil {
			return "?"
		}
		return strconv.Itoa(*b) + "k"
	},
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

const textTmpl = `{{.Label}} ({{.ProfileID}}): {{.Count}} stations
{{- range $i, $s := .Stations}}
{{printf "%3d" (inc $i)}}. {{$s.Name}} [{{with $s.CountryCode}}{{.}}{{else}}--{{end}} {{$s.Codec}} {{bitrate $s.Bitrate}}]
     {{$s.StreamURL}}
{{- else}}
  No stations found.
{{- end}}
{{- if .Errors}}

Errors:
{{- range .Errors}}
  {{.}}
{{- end}}
{{- end}}
`

// WriteText writes a human-readable station list.
func WriteText(w io.Writer, res station.Result) error {
	t, err := template.New("textReport").Funcs(funcs).Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := t.Execute(w, res); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

const htmlTmpl = `<!DOCTYPE html>
<html>
<head>
<title>{{.Label}} stations</title>
<style>
  body { font-family: sans-serif; margin: 40px; color: #333; }
  h1 { border-bottom: 2px solid #ccc; padding-bottom: 10px; }
  table { border-collapse: collapse; margin-top: 10px; }
  th, td { padding: 8px 12px; border: 1px solid #ccc; text-align: left; }
  th { background: #eaeaea; }
  .errors { color: #a00; }
</style>
</head>
<body>
  <h1>{{.Label}} <small>({{.Count}} stations)</small></h1>
  <table>
    <tr><th>Name</th><th>Country</th><th>Codec</th><th>Bitrate</th><th>Stream</th></tr>
    {{- range .Stations}}
    <tr><td>{{.Name}}</td><td>{{.CountryCode}}</td><td>{{.Codec}}</td><td>{{bitrate .Bitrate}}</td><td><a href="{{.StreamURL}}">listen</a></td></tr>
    {{- else}}
    <tr><td colspan="5">None</td></tr>
    {{- end}}
  </table>
  {{- if .Errors}}
  <h3>Errors</h3>
  <ul class="errors">
    {{- range .Errors}}
    <li>{{.}}</li>
    {{- end}}
  </ul>
  {{- end}}
</body>
</html>
`

// WriteHTML writes a standalone HTML page listing the stations.
func WriteHTML(w io.Writer, res station.Result) error {
	t, err := htmltemplate.New("htmlReport").Funcs(htmltemplate.FuncMap(funcs)).Parse(htmlTmpl)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := t.Execute(w, res); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

const mirrorsTmpl = `{{range .}}{{if .OK}}up  {{else}}down{{end}}  {{printf "%-40s" .URL}} {{if .OK}}{{.Latency}}{{else}}{{.Error}}{{end}}
{{else}}No mirrors.
{{end}}`

// WriteMirrors writes one line per probed mirror.
func WriteMirrors(w io.Writer, statuses []mirror.Status) error {
	t, err := template.New("mirrors").Parse(mirrorsTmpl)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := t.Execute(w, statuses); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

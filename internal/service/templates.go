package service

import (
	"html/template"
)

// emailRow is one label/value line in a rendered submission
type emailRow struct {
	Label string
	Value string
}

type emailView struct {
	Title       string
	Rows        []emailRow
	Message     string
	SubmittedAt string
}

var submissionTemplate = template.Must(template.New("submission").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2 style="color: #1a4d8f;">{{.Title}}</h2>
  <table cellpadding="6" style="border-collapse: collapse;">
    {{- range .Rows}}
    <tr>
      <td style="font-weight: bold; border-bottom: 1px solid #eee;">{{.Label}}</td>
      <td style="border-bottom: 1px solid #eee;">{{.Value}}</td>
    </tr>
    {{- end}}
  </table>
  {{- if .Message}}
  <h3>Message</h3>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
  {{- end}}
  <p style="font-size: 12px; color: #888;">Submitted {{.SubmittedAt}}</p>
</body>
</html>
`))

// rows drops empty optional values so the email only lists what was filled in
func rows(pairs ...string) []emailRow {
	out := make([]emailRow, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			continue
		}
		out = append(out, emailRow{Label: pairs[i], Value: pairs[i+1]})
	}
	return out
}

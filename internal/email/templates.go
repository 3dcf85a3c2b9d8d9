package email

import (
	"bytes"
	"html/template"

	"github.com/Novip1906/tasks-notify/internal/models"
)

var completionTmpl = template.Must(template.New("completion").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Task completed</h2>
  <p>{{.Message}}</p>
  <table>
    <tr><td><b>Task</b></td><td>{{.TaskTitle}}</td></tr>
    <tr><td><b>Description</b></td><td>{{.TaskDescription}}</td></tr>
    <tr><td><b>Completed by</b></td><td>{{.UserName}} ({{.UserId}})</td></tr>
    <tr><td><b>Completed at</b></td><td>{{.CompletedAt.Format "2006-01-02 15:04:05 MST"}}</td></tr>
  </table>
</body>
</html>
`))

func renderCompletionTemplate(payload models.CompletionPayload) (string, error) {
	var buf bytes.Buffer

	if err := completionTmpl.Execute(&buf, payload); err != nil {
		return "", err
	}

	return buf.String(), nil
}

package crm

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/uuid"
	metadatav1 "github.com/syntrixbase/crm/api/metadata/v1"
	notificationv1 "github.com/syntrixbase/crm/api/notification/v1"
	userstatev1 "github.com/syntrixbase/crm/api/userstate/v1"
)

// RemindBody is sent by the remind workflow instead of rendered content.
const RemindBody = "Hope you could be well! There were more contents start but not finished. Wecome Back to us"

var contentBody = template.Must(template.New("content").Funcs(template.FuncMap{
	"publishers": func(ps []*metadatav1.Publisher) string {
		names := make([]string, 0, len(ps))
		for _, p := range ps {
			names = append(names, p.GetName())
		}
		return strings.Join(names, ", ")
	},
}).Parse(`Hi {{if .Name}}{{.Name}}{{else}}there{{end}},
{{range .Contents}}
* {{.Name}}{{with .Publishers}} by {{publishers .}}{{end}}
  {{.Description}}
  {{.Url}}
{{end}}`,
))

var errNoRecipient = errors.New("user has no email")

type bodyData struct {
	Name     string
	Contents []*metadatav1.Content
}

// render builds the email for one user. contents is shared by every user of
// the campaign and is only read.
func render(spec workflowSpec, sender string, u *userstatev1.User, contents []*metadatav1.Content) (*notificationv1.SendRequest, error) {
	if u.GetEmail() == "" {
		return nil, errNoRecipient
	}

	body := RemindBody
	if spec.materialize {
		var b strings.Builder
		if err := contentBody.Execute(&b, bodyData{Name: u.GetName(), Contents: contents}); err != nil {
			return nil, fmt.Errorf("render body for %s: %w", u.GetEmail(), err)
		}
		body = b.String()
	}

	return &notificationv1.SendRequest{
		Msg: &notificationv1.SendRequest_Email{
			Email: &notificationv1.EmailMessage{
				MessageId:  uuid.NewString(),
				Sender:     sender,
				Recipients: []string{u.GetEmail()},
				Subject:    spec.subject,
				Body:       body,
			},
		},
	}, nil
}

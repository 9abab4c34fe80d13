package notifications

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

const assetsURL = "https://raw.githubusercontent.com/xmflsct/action-vercel-deployment/master/src/"

// DefaultCommentTemplate is the status comment. Lines are separated with \r\n as GitHub stores them.
const DefaultCommentTemplate = `![Vercel](` + assetsURL + `vercel.svg "Vercel")` + "\r\n" +
	`<img align="left" width="24" height="24" src="` + assetsURL + `info.svg"> This commit {{ .SHA }} is built and deployed to [Vercel](https://vercel.com/).` + "\r\n" +
	`<img align="left" width="24" height="24" src="` + assetsURL + `check-in-circle.svg"> Preview: {{ .URL }}` + "\r\n" +
	"\r\n" +
	`<img align="left" width="24" height="24" src="` + assetsURL + `award.svg"> This {{ .Subject }} has been automatically deployed with [vercel-deployment](https://github.com/xmflsct/action-vercel-deployment)`

// CommentData is available in the comment template, along with the sprig functions
type CommentData struct {
	SHA string
	URL string

	// Domain is the custom domain, if one was assigned
	Domain string

	// Subject is "commit" or "pull request"
	Subject string
}

func renderComment(commentTemplate string, data CommentData) (string, error) {
	if commentTemplate == "" {
		commentTemplate = DefaultCommentTemplate
	}

	tpl, err := template.New("comment").Funcs(sprig.TxtFuncMap()).Parse(commentTemplate)
	if err != nil {
		return "", errors.Wrap(err, "cannot parse comment template")
	}

	var rendered bytes.Buffer
	err = tpl.Execute(&rendered, data)
	if err != nil {
		return "", errors.Wrap(err, "cannot render comment template")
	}
	return rendered.String(), nil
}

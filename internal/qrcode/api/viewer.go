package api

import (
	"html/template"
	"time"
)

var viewerTemplate = template.Must(template.New("viewer").Parse(`<!DOCTYPE html>
<html lang="pt">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{if .Found}}Uma mensagem para ti{{else}}Código não encontrado{{end}} · MyDay QR</title>
<style>
body{margin:0;min-height:100vh;display:flex;align-items:center;justify-content:center;font-family:system-ui,sans-serif;background:linear-gradient(135deg,#f43f5e,#8b5cf6);color:#1f2937}
main{background:#fff;border-radius:1.5rem;padding:2.5rem;max-width:32rem;margin:1rem;text-align:center;box-shadow:0 20px 40px rgba(0,0,0,.15)}
blockquote{font-size:1.5rem;line-height:1.4;margin:1rem 0;white-space:pre-wrap}
small{color:#6b7280}
</style>
</head>
<body>
<main>
{{if .Found}}
<blockquote>{{.Phrase}}</blockquote>
<small>Criado em {{.CreatedAt.Format "02/01/2006"}}</small>
{{else}}
<h1>Código não encontrado</h1>
<p>Este código QR não existe ou foi removido.</p>
{{end}}
<p><a href="{{.HomeURL}}">MyDay QR</a></p>
</main>
</body>
</html>
`))

type viewerData struct {
	Found     bool
	Phrase    string
	CreatedAt time.Time
	HomeURL   string
}

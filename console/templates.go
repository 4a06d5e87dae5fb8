package console

import (
	"html/template"
)

// pageData is the data passed to layoutTemplate.
type pageData struct {
	Title   string
	Tables  []tableLink
	Flash   string
	Content template.HTML
	Detail  []detailField
	// Table is the name of the shown table,
	// empty for the index page.
	Table string
}

type tableLink struct {
	Name    string
	Title   string
	Current bool
}

type detailField struct {
	Key   string
	Value string
}

type indexData struct {
	Tables []tableLink
	Audit  template.HTML
}

var layoutTemplate = template.Must(template.New("layout").Parse(layoutHTML))

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

const layoutHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} | Admin console</title>
<style>
body { font-family: sans-serif; margin: 0; }
nav { background: #8a0303; padding: .5em 1em; }
nav a { color: #fff; margin-right: 1em; text-decoration: none; }
nav a[aria-current] { font-weight: bold; }
main { padding: 1em; }
table { border-collapse: collapse; }
th, td { border-bottom: 1px solid #ddd; padding: .3em .6em; text-align: left; }
tr.row { cursor: pointer; }
tr.selected { background: #fde8e8; }
.flash { background: #e8f4fd; padding: .5em; }
.detail dt { font-weight: bold; }
.tools form { display: inline; }
</style>
</head>
<body>
<nav>
<a href="/">Tables</a>
{{- range .Tables}}
<a href="/tables/{{.Name}}"{{if .Current}} aria-current="page"{{end}}>{{.Title}}</a>
{{- end}}
</nav>
<main>
{{- if .Flash}}
<p class="flash" role="status">{{.Flash}}</p>
{{- end}}
{{.Content}}
{{- if .Detail}}
<section class="detail">
<h3>Record</h3>
<dl>
{{- range .Detail}}
<dt>{{.Key}}</dt><dd>{{.Value}}</dd>
{{- end}}
</dl>
</section>
{{- end}}
{{- with .Table}}
<p class="tools">
<a href="/tables/{{.}}/export.csv" download>CSV</a>
<a href="/tables/{{.}}/export.csv?scope=page" download>CSV (page)</a>
<a href="/tables/{{.}}/export.csv?scope=selected" download>CSV (selected)</a>
<a href="/tables/{{.}}/export.xlsx" download>Excel</a>
<form method="post" action="/tables/{{.}}/reload"><button type="submit">Reload</button></form>
</p>
{{- end}}
</main>
</body>
</html>
`

const indexHTML = `<h2>Tables</h2>
<ul class="tables">
{{- range .Tables}}
<li><a href="/tables/{{.Name}}">{{.Title}}</a></li>
{{- end}}
</ul>
{{.Audit}}`

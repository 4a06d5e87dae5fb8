package htmltable

import "html/template"

var (
	HeaderTemplate = template.Must(template.New("header").Parse(
		"<table{{if .TableClass}} class='{{.TableClass}}'{{end}}>\n" +
			"{{if .Caption}}  <caption>{{.Caption}}</caption>\n{{end}}",
	))

	RowTemplate = template.Must(template.New("row").Parse("" +
		"{{if .IsHeaderRow}}" +
		"  <tr>{{range $cell := .RawCells}}<th>{{$cell}}</th>{{end}}</tr>\n" +
		"{{else}}" +
		"  <tr>{{range $cell := .RawCells}}<td>{{$cell}}</td>{{end}}</tr>\n" +
		"{{end}}",
	))

	FooterTemplate = template.Must(template.New("footer").Parse(
		"</table>",
	))

	// GridTemplate renders a GridContext.
	GridTemplate = template.Must(template.New("grid").Parse(gridTemplate))
)

type TemplateContext struct {
	TableClass string
	Caption    string
}

type RowTemplateContext struct {
	TemplateContext

	IsHeaderRow bool
	RowIndex    int
	RawCells    []template.HTML
}

const gridTemplate = `<div class="retable-grid">
{{- if .Title}}
<h2>{{.Title}}</h2>
{{- end}}
<form class="search" method="get" action="{{.BaseURL}}">
  <input type="search" name="q" value="{{.Query}}" placeholder="{{.SearchPlaceholder}}">
  <button type="submit">Search</button>
</form>
{{- if .Selectable}}
<p class="selection">{{.SelectedCount}} selected</p>
{{- end}}
<table{{if .TableClass}} class="{{.TableClass}}"{{end}}>
  <thead>
    <tr>
{{- if .Selectable}}
      <th class="select"><input type="checkbox" form="select-page" aria-label="Select page"{{if .PageSelected}} checked{{end}} onclick="event.stopPropagation()" onchange="this.form.submit()"></th>
{{- end}}
{{- range .Headers}}
      <th{{if .ClassName}} class="{{.ClassName}}"{{end}} aria-sort="{{.AriaSort}}">
        {{- if .Sortable}}<a href="{{.SortURL}}">{{.Title}}{{if .Indicator}} {{.Indicator}}{{end}}</a>{{else}}{{.Title}}{{end -}}
      </th>
{{- end}}
{{- if .HasActions}}
      <th class="actions">Actions</th>
{{- end}}
    </tr>
  </thead>
  <tbody>
{{- if .Empty}}
    <tr class="empty"><td colspan="{{.ColSpan}}">{{.NoRowsText}}</td></tr>
{{- end}}
{{- range .Rows}}
    <tr class="row{{if .Selected}} selected{{end}}" data-key="{{.Key}}" onclick="document.getElementById({{.ClickFormID}}).submit()">
{{- if $.Selectable}}
      <td class="select"><input type="checkbox" form="{{.SelectFormID}}" aria-label="Select row"{{if .Selected}} checked{{end}} onclick="event.stopPropagation()" onchange="this.form.submit()"></td>
{{- end}}
{{- range .Cells}}
      <td{{if .ClassName}} class="{{.ClassName}}"{{end}}>{{.HTML}}</td>
{{- end}}
{{- if $.HasActions}}
      <td class="actions">
        {{- range .Actions}}<button type="submit" form="{{.FormID}}"{{if .ClassName}} class="{{.ClassName}}"{{end}} onclick="event.stopPropagation()">{{if .Icon}}<span class="icon">{{.Icon}}</span> {{end}}{{.Label}}</button>{{end -}}
      </td>
{{- end}}
    </tr>
{{- end}}
  </tbody>
</table>
<div class="pagination">
  <span class="summary">{{if .Empty}}0 rows{{else}}{{.First}}-{{.Last}} of {{.TotalRows}}{{end}}</span>
  <form method="get" action="{{.BaseURL}}">
    <select name="size" aria-label="Rows per page" onchange="this.form.submit()">
      {{- range .PageSizes}}<option value="{{.Size}}"{{if .Selected}} selected{{end}}>{{.Size}}</option>{{end -}}
    </select>
  </form>
  {{- range .NavLinks}}
  {{if .Disabled}}<button type="button" class="nav" disabled>{{.Label}}</button>{{else}}<a class="nav" href="{{.URL}}">{{.Label}}</a>{{end}}
  {{- end}}
  <span class="page">Page {{.Number}} of {{.TotalPages}}</span>
</div>
{{- if .Selectable}}
<form id="select-page" method="post" action="{{.SelectURL}}"><input type="hidden" name="page" value="{{if .PageSelected}}off{{else}}on{{end}}"></form>
{{- end}}
{{- range .Rows}}
<form id="{{.ClickFormID}}" method="post" action="{{.ClickURL}}"></form>
{{- if $.Selectable}}
<form id="{{.SelectFormID}}" method="post" action="{{$.SelectURL}}"><input type="hidden" name="key" value="{{.Key}}"></form>
{{- end}}
{{- range .Actions}}
<form id="{{.FormID}}" method="post" action="{{.URL}}"></form>
{{- end}}
{{- end}}
</div>
`

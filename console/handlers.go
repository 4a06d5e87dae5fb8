package console

import (
	"bytes"
	"html/template"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hemolink/retable"
	"github.com/hemolink/retable/csvtable"
	"github.com/hemolink/retable/exceltable"
	"github.com/hemolink/retable/grid"
	"github.com/hemolink/retable/htmltable"
	"github.com/hemolink/retable/source"
)

// Values of the scope query parameter of the export handlers.
const (
	ScopeAll      = "all"
	ScopePage     = "page"
	ScopeSelected = "selected"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) tableLinks(current string) []tableLink {
	links := make([]tableLink, len(s.config.Tables))
	for i, t := range s.config.Tables {
		links[i] = tableLink{Name: t.Name, Title: t.Title, Current: t.Name == current}
	}
	return links
}

func (s *Server) render(w http.ResponseWriter, data *pageData) error {
	var buf bytes.Buffer
	if err := layoutTemplate.Execute(&buf, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var audit bytes.Buffer
	err := auditWriter.WriteView(r.Context(), &audit, s.audit.View())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var content bytes.Buffer
	err = indexTemplate.Execute(&content, &indexData{
		Tables: s.tableLinks(""),
		Audit:  template.HTML(audit.String()),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	err = s.render(w, &pageData{
		Title:   "Tables",
		Tables:  s.tableLinks(""),
		Content: template.HTML(content.String()),
	})
	if err != nil {
		s.writeError(w, r, err)
	}
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(t *table, v *tableView) error {
		if err := applyParams(v.grid, r.URL.Query()); err != nil {
			return err
		}
		var content bytes.Buffer
		if err := t.writer.WritePage(r.Context(), &content, v.grid, t.url()); err != nil {
			return err
		}
		data := &pageData{
			Title:   t.config.Title,
			Tables:  s.tableLinks(t.config.Name),
			Flash:   v.flash,
			Content: template.HTML(content.String()),
			Detail:  detailFields(v.detail),
			Table:   t.config.Name,
		}
		v.flash = ""
		return s.render(w, data)
	})
}

// applyParams applies the query parameters
// of the links and forms rendered by htmltable.GridWriter.
// Pages out of range are clamped.
func applyParams(g *grid.Grid[source.Record], params url.Values) error {
	if params.Has(htmltable.ParamQuery) {
		g.SetQuery(strings.TrimSpace(params.Get(htmltable.ParamQuery)))
	}
	if params.Has(htmltable.ParamSort) {
		spec, err := htmltable.ParseSortParam(params.Get(htmltable.ParamSort))
		if err != nil {
			return badRequest("%w", err)
		}
		if spec != nil && !sortable(g, spec.Key) {
			return badRequest("column %q is not sortable", spec.Key)
		}
		g.SetSort(spec)
	}
	if params.Has(htmltable.ParamPageSize) {
		size, err := strconv.Atoi(params.Get(htmltable.ParamPageSize))
		if err != nil {
			return badRequest("invalid page size %q", params.Get(htmltable.ParamPageSize))
		}
		if err = g.SetPageSize(size); err != nil {
			return err
		}
	}
	if params.Has(htmltable.ParamPage) {
		page, err := strconv.Atoi(params.Get(htmltable.ParamPage))
		if err != nil {
			return badRequest("invalid page %q", params.Get(htmltable.ParamPage))
		}
		return g.SetPage(min(max(page, 1), g.TotalPages()))
	}
	return nil
}

func sortable(g *grid.Grid[source.Record], key string) bool {
	for _, col := range g.Columns() {
		if col.Key == key {
			return col.Sortable
		}
	}
	return false
}

func detailFields(record source.Record) []detailField {
	keys, values := retable.RecordFields(record, nil)
	fields := make([]detailField, len(keys))
	for i, key := range keys {
		fields[i] = detailField{Key: key, Value: retable.CellString(values[i])}
	}
	return fields
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(t *table, v *tableView) error {
		if err := r.ParseForm(); err != nil {
			return badRequest("%w", err)
		}
		if !v.grid.Selectable() {
			return badRequest("table %s is not selectable", t.config.Name)
		}
		switch {
		case r.PostForm.Has(htmltable.FieldKey):
			v.grid.ToggleRow(r.PostForm.Get(htmltable.FieldKey))
		case r.PostForm.Get(htmltable.FieldPage) == "on":
			v.grid.SetPageSelected(true)
		case r.PostForm.Get(htmltable.FieldPage) == "off":
			v.grid.SetPageSelected(false)
		default:
			return badRequest("missing form field %s or %s", htmltable.FieldKey, htmltable.FieldPage)
		}
		http.Redirect(w, r, t.url(), http.StatusSeeOther)
		return nil
	})
}

func rowIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, badRequest("invalid row index %q", r.PathValue("index"))
	}
	return index, nil
}

func (s *Server) handleRowClick(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(t *table, v *tableView) error {
		index, err := rowIndex(r)
		if err != nil {
			return err
		}
		if err = v.grid.ClickRow(index); err != nil {
			return err
		}
		http.Redirect(w, r, t.url(), http.StatusSeeOther)
		return nil
	})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(t *table, v *tableView) error {
		index, err := rowIndex(r)
		if err != nil {
			return err
		}
		if err = v.grid.InvokeAction(r.PathValue("label"), index); err != nil {
			return err
		}
		http.Redirect(w, r, t.url(), http.StatusSeeOther)
		return nil
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(t *table, v *tableView) error {
		n, err := t.reload(r.Context(), s.loader)
		if err != nil {
			return &statusError{status: http.StatusBadGateway, err: err}
		}
		s.logger.Info("Reloaded table", zap.String("table", t.config.Name), zap.Int("records", n))
		v.flash = "Reloaded " + strconv.Itoa(n) + " records"
		http.Redirect(w, r, t.url(), http.StatusSeeOther)
		return nil
	})
}

// exportView returns the rows of scope with the raw values
// of the grid columns, titled like the table.
func exportView(t *table, v *tableView, scope string) (retable.View, error) {
	var view retable.View
	switch scope {
	case "", ScopeAll:
		view = v.grid.View()
	case ScopePage:
		view = retable.PageView(v.grid.View(), v.grid.PageNumber(), v.grid.PageSize())
	case ScopeSelected:
		view = v.grid.SelectedView()
	default:
		return nil, badRequest("invalid export scope %q", scope)
	}
	return retable.ViewWithTitle(view, t.config.Title), nil
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(t *table, v *tableView) error {
		view, err := exportView(t, v, r.URL.Query().Get("scope"))
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		err = csvtable.NewWriter().
			WithHeaderRow(true).
			WithDelimiter(',').
			WriteView(r.Context(), &buf, view)
		if err != nil {
			return err
		}
		return s.writeExport(w, t, view, "csv", "text/csv; charset=utf-8", buf.Bytes())
	})
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.withView(w, r, func(t *table, v *tableView) error {
		view, err := exportView(t, v, r.URL.Query().Get("scope"))
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err = exceltable.WriteView(r.Context(), &buf, view); err != nil {
			return err
		}
		return s.writeExport(w, t, view, "xlsx", xlsxContentType, buf.Bytes())
	})
}

func (s *Server) writeExport(w http.ResponseWriter, t *table, view retable.View, ext, contentType string, data []byte) error {
	filename := t.config.Name + "." + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("Failed to write export", zap.String("table", t.config.Name), zap.Error(err))
		return nil
	}
	s.logger.Info("Exported table",
		zap.String("table", t.config.Name),
		zap.String("format", ext),
		zap.Int("rows", view.NumRows()),
	)
	return nil
}

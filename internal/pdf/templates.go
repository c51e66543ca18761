package pdf

import "html/template"

var documentTemplate = template.Must(template.New("brief").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  @page { size: A4; margin: 40px 40px 60px 40px; }
  body { font-family: Helvetica, Arial, sans-serif; font-size: 10pt; color: #1f2937; }
  .header { border-bottom: 2px solid #10b981; padding-bottom: 12px; margin-bottom: 20px; }
  .title { font-size: 22pt; font-weight: bold; margin: 0 0 4px 0; }
  .subtitle { color: #6b7280; margin: 0 0 8px 0; }
  .badge { display: inline-block; padding: 3px 10px; border-radius: 10px; font-size: 8pt; font-weight: bold; }
  .badge.approved { background: #d1fae5; color: #065f46; }
  .badge.in-progress { background: #dbeafe; color: #1e40af; }
  .badge.draft { background: #f3f4f6; color: #374151; }
  .meta { color: #6b7280; font-size: 9pt; margin-top: 8px; }
  .section { margin-bottom: 18px; }
  .section-title { font-size: 14pt; font-weight: bold; background: #f9fafb; border-left: 4px solid #10b981; padding: 6px 10px; }
  .group-heading { font-size: 11pt; font-weight: bold; color: #047857; margin: 12px 0 6px 0; }
  .row { display: flex; border-bottom: 1px solid #f3f4f6; padding: 4px 0; page-break-inside: avoid; }
  .row .label { width: 40%; font-weight: bold; color: #4b5563; }
  .row .value { width: 60%; white-space: pre-wrap; }
  .block { margin: 6px 0 10px 0; page-break-inside: avoid; }
  .block .label { font-weight: bold; color: #4b5563; margin-bottom: 3px; }
  .block .value { white-space: pre-wrap; background: #f9fafb; border: 1px solid #e5e7eb; padding: 6px; }
  .empty { color: #9ca3af; font-style: italic; }
</style>
</head>
<body>
<div class="header">
  <p class="title">{{.Title}}</p>
  <p class="subtitle">Template: {{.TemplateName}}</p>
  <span class="badge {{.StatusClass}}">{{.Status}}</span>
  <div class="meta">
    {{if .CreatedAt}}Created: {{.CreatedAt}}{{end}}{{if .UpdatedAt}} &middot; Last updated: {{.UpdatedAt}}{{end}}
    {{if .CreatedBy}}<br>Created by: {{.CreatedBy}}{{end}}
    {{with .Exporter}}<br>Exported by: {{.Name}}{{if .Email}} ({{.Email}}){{end}}{{end}}
  </div>
</div>
{{range .Sections}}
<div class="section">
  <div class="section-title">{{.Name}}</div>
  {{range .Groups}}
  <div class="group-heading">{{.Heading}}</div>
  {{range .Fields}}
  {{if .Long}}
  <div class="block">
    <div class="label">{{.Label}}</div>
    <div class="value{{if .Empty}} empty{{end}}">{{.Value}}</div>
  </div>
  {{else}}
  <div class="row">
    <div class="label">{{.Label}}</div>
    <div class="value{{if .Empty}} empty{{end}}">{{.Value}}</div>
  </div>
  {{end}}
  {{end}}
  {{end}}
</div>
{{end}}
</body>
</html>
`))

// Gotenberg fills the pageNumber and totalPages spans per page.
var footerTemplate = template.Must(template.New("footer").Parse(`<html>
<head>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 8px; color: #9ca3af; margin: 0 40px; width: 100%; text-align: center; }
</style>
</head>
<body>
  <p>Page <span class="pageNumber"></span> of <span class="totalPages"></span> &bull; Generated on {{.}}</p>
</body>
</html>
`))

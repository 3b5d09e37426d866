package server

// The review UI is two server-rendered pages; no client-side framework, no
// assets to serve.

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Flare Style Checker</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 3rem auto; }
form { border: 1px solid #ccc; padding: 2rem; border-radius: 6px; }
</style>
</head>
<body>
<h1>Flare Style Checker &mdash; MSTP Rules</h1>
<p>Upload a MadCap Flare HTML topic. {{.RuleCount}} style rules are loaded.</p>
<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="document" accept=".html,.htm" required>
  <button type="submit">Check document</button>
</form>
</body>
</html>
`

const reviewHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Review &mdash; {{.Session.Name}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 72rem; margin: 2rem auto; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ddd; padding: 0.4rem 0.6rem; text-align: left; vertical-align: top; }
th { background: #f5f5f5; }
.path { color: #666; font-size: 0.8rem; }
.warning { background: #fff3cd; border: 1px solid #ffe69c; padding: 0.75rem; border-radius: 4px; }
.conflict { background: #ffecec; }
ins { background: #eaffea; text-decoration: none; }
del { background: #ffecec; }
pre.diff { font-family: ui-monospace, Menlo, Consolas, monospace; font-size: 12px; white-space: pre-wrap; background: #fafafa; border: 1px solid #eee; padding: 0.75rem; }
.actions { margin: 1rem 0; display: flex; gap: 0.5rem; }
</style>
</head>
<body>
<h1>{{.Session.Name}}</h1>
<p><a href="/">&larr; check another document</a> &middot;
<a href="/sessions/{{.Session.ID}}/suggestions.csv">download suggestions (CSV)</a></p>

{{if .Degraded}}
<p class="warning">Grammar check unavailable &mdash; showing style suggestions only.
{{if .Warning}}({{.Warning}}){{end}}</p>
{{end}}

{{if not .Rows}}
<p>No suggestions. The document already follows the loaded rules.</p>
{{else}}
<form action="/review/{{.Session.ID}}/decisions" method="post">
<table>
<tr><th>#</th><th>Accept</th><th>Type</th><th>Rule</th><th>Location</th><th>Change</th><th>Rationale</th></tr>
{{range .Rows}}
<tr>
  <td>{{.Num}}</td>
  <td><input type="checkbox" name="accept" value="{{.Key}}"{{if .Accepted}} checked{{end}}></td>
  <td>{{.Source}}</td>
  <td>{{.RuleID}}</td>
  <td class="path">{{.Path}}</td>
  <td>{{.Inline}}</td>
  <td>{{.Rationale}}</td>
</tr>
{{end}}
</table>
<div class="actions">
  <button type="submit" name="action" value="save">Save decisions</button>
  <button type="submit" name="action" value="apply">Apply accepted changes</button>
  <button type="submit" name="action" value="accept-all">Accept all</button>
  <button type="submit" name="action" value="reject-all">Reject all</button>
</div>
</form>
{{end}}

{{if .Applied}}
<h2>Result</h2>
<p>Applied {{len .Applied.Applied}} change(s).
<a href="/sessions/{{.Session.ID}}/cleaned">download cleaned HTML</a> &middot;
<a href="/sessions/{{.Session.ID}}/diff">download diff</a></p>

{{if .Conflicts}}
<h3>Not applied (overlapping edits)</h3>
<table>
<tr><th>Rule</th><th>Text</th><th>Conflicts with</th></tr>
{{range .Conflicts}}
<tr class="conflict">
  <td>{{.Suggestion.RuleID}}</td>
  <td>{{.Suggestion.Original}}</td>
  <td>{{.ConflictsWith}}</td>
</tr>
{{end}}
</table>
{{end}}

{{if .Diff}}
<h3>Diff</h3>
<pre class="diff">{{.Diff}}</pre>
{{else}}
<p>No differences &mdash; nothing was accepted.</p>
{{end}}
{{end}}

</body>
</html>
`

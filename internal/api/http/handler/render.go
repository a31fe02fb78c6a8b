package handler

import (
	"html/template"
	"net/http"
)

const loginPage = `<!DOCTYPE html>
<html>
<head>
<title>Sign in</title>
<style>
body { font-family: sans-serif; max-width: 24rem; margin: 4rem auto; }
label { display: block; margin-top: 1rem; }
input { width: 100%; padding: 0.4rem; }
button { margin-top: 1.5rem; padding: 0.5rem 1.5rem; }
.error { color: #b00020; }
</style>
</head>
<body>
<h1>Sign in</h1>
{{if .Message}}<p class="error">{{.Message}}</p>{{end}}
<form method="POST" action="/oauth2/login">
<input type="hidden" name="state" value="{{.State}}">
<label>Email <input type="email" name="email" autocomplete="username" required></label>
<label>Password <input type="password" name="password" autocomplete="current-password" required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`

const grantPage = `<!DOCTYPE html>
<html>
<head>
<title>Authorize {{.ClientName}}</title>
<style>
body { font-family: sans-serif; max-width: 24rem; margin: 4rem auto; }
button { margin-top: 1.5rem; margin-right: 1rem; padding: 0.5rem 1.5rem; }
</style>
</head>
<body>
<h1>Authorize {{.ClientName}}</h1>
<p><strong>{{.ClientName}}</strong> is asking for access to your account.</p>
{{if .Scope}}<p>Requested scope: <code>{{.Scope}}</code></p>{{end}}
<form method="POST" action="/oauth2/grant">
<input type="hidden" name="state" value="{{.State}}">
<button type="submit" name="allow" value="true">Allow</button>
<button type="submit" name="allow" value="false">Deny</button>
</form>
</body>
</html>
`

var (
	loginTemplate = template.Must(template.New("login").Parse(loginPage))
	grantTemplate = template.Must(template.New("grant").Parse(grantPage))
)

func renderLogin(w http.ResponseWriter, state, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loginTemplate.Execute(w, struct {
		State   string
		Message string
	}{State: state, Message: message})
}

func renderGrant(w http.ResponseWriter, state, clientName, scope string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = grantTemplate.Execute(w, struct {
		State      string
		ClientName string
		Scope      string
	}{State: state, ClientName: clientName, Scope: scope})
}

package api

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/asset-dashboard/internal/errors"
	"github.com/asset-dashboard/internal/session"
	"github.com/asset-dashboard/internal/types"
)

var pageTemplate = template.Must(template.New("dashboard").Parse(dashboardHTML))

// sortOption is one entry of the sort selector
type sortOption struct {
	Key      types.SortKey
	Label    string
	Selected bool
}

// pageData is what the dashboard template renders
type pageData struct {
	session.View
	Skeletons   []int
	SortOptions []sortOption
}

func newPageData(v session.View) pageData {
	return pageData{
		View:      v,
		Skeletons: make([]int, v.Placeholders),
		SortOptions: []sortOption{
			{Key: types.SortByID, Label: "ID", Selected: v.SortKey == types.SortByID},
			{Key: types.SortByName, Label: "Name", Selected: v.SortKey == types.SortByName},
		},
	}
}

// handlePage handles GET /
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(s.session.View())); err != nil {
		respondServiceError(w, r, apperrors.NewInternalError("failed to render dashboard", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleUIToggleWallet handles POST /ui/wallet
func (s *Server) handleUIToggleWallet(w http.ResponseWriter, r *http.Request) {
	s.redirectAfter(w, r, s.session.ToggleWallet)
}

// handleUIToggleFilter handles POST /ui/filter
func (s *Server) handleUIToggleFilter(w http.ResponseWriter, r *http.Request) {
	s.redirectAfter(w, r, s.session.ToggleFilterMineOnly)
}

// handleUISetSort handles POST /ui/sort
func (s *Server) handleUISetSort(w http.ResponseWriter, r *http.Request) {
	key := types.SortKey(r.PostFormValue("sortKey"))
	s.redirectAfter(w, r, func() (session.View, error) {
		return s.session.SetSortKey(key)
	})
}

// handleUISelect handles POST /ui/select. An empty assetId closes the detail view.
func (s *Server) handleUISelect(w http.ResponseWriter, r *http.Request) {
	var id *int64
	if raw := strings.TrimSpace(r.PostFormValue("assetId")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondServiceError(w, r, apperrors.NewInvalidInputError("asset id must be an integer"))
			return
		}
		id = &parsed
	}

	s.redirectAfter(w, r, func() (session.View, error) {
		return s.session.SelectAsset(id)
	})
}

// redirectAfter runs an intent and sends the browser back to the page
func (s *Server) redirectAfter(w http.ResponseWriter, r *http.Request, intent func() (session.View, error)) {
	if _, err := intent(); err != nil {
		respondServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

const dashboardHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Asset Dashboard</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  :root {
    --bg: #0b0f17; --surface: #151b26; --surface-hover: #1e2533;
    --border: rgba(148,163,184,0.15); --text: #f1f5f9; --text-dim: #94a3b8;
    --accent: #38bdf8; --owned: #22c55e;
    --common: #94a3b8; --rare: #38bdf8; --epic: #a855f7; --legendary: #f59e0b;
  }
  body {
    font-family: -apple-system, 'Segoe UI', system-ui, sans-serif;
    background: var(--bg); color: var(--text); min-height: 100vh; padding: 32px 24px;
  }
  .container { max-width: 1040px; margin: 0 auto; }
  .header { display: flex; align-items: center; gap: 16px; margin-bottom: 24px; }
  .header h1 { font-size: 24px; font-weight: 800; }
  .spacer { flex: 1; }
  .controls { display: flex; align-items: center; gap: 12px; margin-bottom: 24px; }
  button, select {
    background: var(--surface); color: var(--text); border: 1px solid var(--border);
    border-radius: 8px; padding: 8px 14px; font-size: 13px; cursor: pointer;
  }
  button:hover { background: var(--surface-hover); }
  .wallet { font-family: 'SF Mono', 'Menlo', monospace; }
  .grid { display: grid; grid-template-columns: repeat(auto-fill, minmax(200px, 1fr)); gap: 16px; }
  .card {
    display: block; width: 100%; text-align: left; padding: 0; overflow: hidden;
    background: var(--surface); border: 1px solid var(--border); border-radius: 12px;
  }
  .card.owned { border-color: var(--owned); }
  .card img { width: 100%; aspect-ratio: 1; object-fit: cover; display: block; background: #0f141d; }
  .card .meta { padding: 12px; }
  .card .name { font-weight: 700; }
  .card .id { color: var(--text-dim); font-size: 12px; }
  .rarity { font-size: 11px; font-weight: 700; text-transform: uppercase; letter-spacing: 0.5px; }
  .rarity.Common { color: var(--common); }
  .rarity.Rare { color: var(--rare); }
  .rarity.Epic { color: var(--epic); }
  .rarity.Legendary { color: var(--legendary); }
  .skeleton { height: 260px; border-radius: 12px; background: var(--surface); animation: pulse 1.2s ease-in-out infinite; }
  @keyframes pulse { 50% { opacity: 0.5; } }
  .empty { color: var(--text-dim); padding: 48px 0; text-align: center; }
  .overlay { position: fixed; inset: 0; background: rgba(0,0,0,0.6); display: flex; align-items: center; justify-content: center; }
  .detail { background: var(--surface); border: 1px solid var(--border); border-radius: 16px; padding: 24px; width: 360px; }
  .detail img { width: 100%; border-radius: 12px; margin-bottom: 16px; }
  .detail dl { display: grid; grid-template-columns: auto 1fr; gap: 6px 12px; margin: 12px 0 20px; font-size: 13px; }
  .detail dt { color: var(--text-dim); }
  .detail dd { font-family: 'SF Mono', 'Menlo', monospace; word-break: break-all; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Asset Dashboard</h1>
    <div class="spacer"></div>
    <form method="post" action="/ui/wallet">
      {{if .Wallet}}<button class="wallet" type="submit" title="Disconnect">{{.Wallet}}</button>
      {{else}}<button type="submit">Connect Wallet</button>{{end}}
    </form>
  </div>

  <div class="controls">
    <form method="post" action="/ui/filter">
      <button type="submit">{{if .FilterMineOnly}}Showing: mine only{{else}}Showing: all{{end}}</button>
    </form>
    <form method="post" action="/ui/sort">
      <select name="sortKey">
        {{range .SortOptions}}<option value="{{.Key}}"{{if .Selected}} selected{{end}}>Sort by {{.Label}}</option>
        {{end}}
      </select>
      <button type="submit">Apply</button>
    </form>
  </div>

  {{if not .Loaded}}
  <div class="grid">
    {{range .Skeletons}}<div class="skeleton"></div>
    {{end}}
  </div>
  {{else if not .Assets}}
  <div class="empty">No assets to show</div>
  {{else}}
  <div class="grid">
    {{range .Assets}}
    <form method="post" action="/ui/select">
      <input type="hidden" name="assetId" value="{{.ID}}">
      <button class="card{{if .Owned}} owned{{end}}" type="submit">
        <img src="{{.Image}}" alt="{{.Name}}">
        <div class="meta">
          <div class="name">{{.Name}}</div>
          <div class="id">#{{.ID}}</div>
          <div class="rarity {{.Rarity}}">{{.Rarity}}</div>
        </div>
      </button>
    </form>
    {{end}}
  </div>
  {{end}}

  {{with .Detail}}
  <div class="overlay">
    <div class="detail">
      <img src="{{.Image}}" alt="{{.Name}}">
      <h2>{{.Name}}</h2>
      <dl>
        <dt>ID</dt><dd>{{.ID}}</dd>
        <dt>Owner</dt><dd>{{.Owner}}</dd>
        <dt>Rarity</dt><dd class="rarity {{.Rarity}}">{{.Rarity}}</dd>
      </dl>
      <form method="post" action="/ui/select">
        <input type="hidden" name="assetId" value="">
        <button type="submit">Close</button>
      </form>
    </div>
  </div>
  {{end}}
</div>
</body>
</html>`

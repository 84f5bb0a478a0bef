package site

// pageTemplate renders the content shell around every page.
const pageTemplate = `<!DOCTYPE html>
<html lang="en" data-theme="{{.Scheme}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{if .Title}}{{.Title}} | {{end}}{{.SiteTitle}}</title>
  {{- if .Description}}
  <meta name="description" content="{{.Description}}">
  {{- end}}
  <link rel="stylesheet" href="{{.AssetBase}}style.css">
  <script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
</head>
<body data-mode="{{.Mode}}" data-base="{{.BasePath}}" data-route="{{.Route}}" data-mermaid-theme="{{.MermaidTheme}}" data-toc-threshold="{{.TOCThreshold}}">
  <header class="top-bar">
    <button class="menu-toggle" id="menu-toggle" aria-label="Toggle navigation">
      <svg width="22" height="22" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2">
        <line x1="3" y1="6" x2="21" y2="6"/><line x1="3" y1="12" x2="21" y2="12"/><line x1="3" y1="18" x2="21" y2="18"/>
      </svg>
    </button>
    <a class="site-title" href="{{.HomeHref}}">{{.SiteTitle}}</a>
    <div class="spotlight">
      <input type="search" id="spotlight-input" placeholder="Search notes..." autocomplete="off" aria-label="Search notes">
      <div class="spotlight-results" id="spotlight-results" hidden></div>
    </div>
    {{- if .RepoURL}}
    <a class="icon-link" href="{{.RepoURL}}" aria-label="Source on GitHub">
      <svg viewBox="0 0 16 16" width="22" height="22" fill="currentColor" aria-hidden="true"><path d="M8 0C3.58 0 0 3.58 0 8c0 3.54 2.29 6.53 5.47 7.59.4.07.55-.17.55-.38 0-.19-.01-.82-.01-1.49-2.01.37-2.53-.49-2.69-.94-.09-.23-.48-.94-.82-1.13-.28-.15-.68-.52-.01-.53.63-.01 1.08.58 1.23.82.72 1.21 1.87.87 2.33.66.07-.52.28-.87.51-1.07-1.78-.2-3.64-.89-3.64-3.95 0-.87.31-1.59.82-2.15-.08-.2-.36-1.02.08-2.12 0 0 .67-.21 2.2.82.64-.18 1.32-.27 2-.27.68 0 1.36.09 2 .27 1.53-1.04 2.2-.82 2.2-.82.44 1.1.16 1.92.08 2.12.51.56.82 1.27.82 2.15 0 3.07-1.87 3.75-3.65 3.95.29.25.54.73.54 1.48 0 1.07-.01 1.93-.01 2.2 0 .21.15.46.55.38A8.013 8.013 0 0 0 16 8c0-4.42-3.58-8-8-8z"></path></svg>
    </a>
    {{- end}}
    <button class="theme-toggle" id="theme-toggle" aria-label="Toggle color scheme">
      <svg class="sun-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><circle cx="12" cy="12" r="5"/><line x1="12" y1="1" x2="12" y2="3"/><line x1="12" y1="21" x2="12" y2="23"/><line x1="1" y1="12" x2="3" y2="12"/><line x1="21" y1="12" x2="23" y2="12"/></svg>
      <svg class="moon-icon" width="20" height="20" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M21 12.79A9 9 0 1 1 11.21 3 7 7 0 0 0 21 12.79z"/></svg>
    </button>
  </header>
  <nav class="sidebar" id="sidebar" aria-label="Notes">
    {{.Sidebar}}
  </nav>
  <div class="sidebar-overlay" id="sidebar-overlay"></div>
  <main class="content">
    {{- with .Message}}
    <section class="center-message" role="status">
      <h2>{{.Title}}</h2>
      <p>{{.Description}}</p>
    </section>
    {{- else}}
    <article class="page-content" id="page-content">
      {{.Content}}
    </article>
    {{- end}}
    <footer class="page-footer">
      <span>{{.SiteTitle}}</span>
      {{- if .EditURL}}
      <a class="edit-link" href="{{.EditURL}}">Edit this page on GitHub</a>
      {{- else if .Message}}
      <span class="edit-link disabled">404</span>
      {{- end}}
    </footer>
  </main>
  <aside class="toc-aside" id="toc-aside">
    {{.TOC}}
  </aside>
  <script src="{{.AssetBase}}script.js"></script>
</body>
</html>`

// indexContent is the landing page body: every group with its entries.
const indexContent = `<h1 data-toc="false">{{.SiteTitle}}</h1>
<p class="lead">Lecture notes, diagrams and worked examples.</p>
{{- range .Groups}}
<section class="index-group">
  <h2 id="{{slug .Name}}">{{.Name}}</h2>
  <div class="index-cards">
  {{- range .Entries}}
    <a class="index-card" href="{{href .Route}}">
      <strong>{{.Title}}</strong>
      {{- if .Description}}<span>{{.Description}}</span>{{end}}
    </a>
  {{- end}}
  </div>
</section>
{{- end}}`

// cssContent styles the shell and the shortcode widgets.
const cssContent = `:root {
  --bg: #fffaf5;
  --bg-header: #f3e6d8;
  --bg-sidebar: #fbf4ec;
  --text: #212529;
  --text-muted: #7a6f66;
  --border: #e6d8ca;
  --accent: #a0522d;
  --accent-light: #f5e3d3;
  --code-bg: #f6f8fa;
  --error-bg: #fff0f0;
  --error-border: #e03131;
  --header-height: 64px;
  --sidebar-width: 300px;
  --toc-width: 240px;
}

[data-theme="dark"] {
  --bg: #1a1b1e;
  --bg-header: #1a1b1e;
  --bg-sidebar: #202124;
  --text: #e9ecef;
  --text-muted: #909296;
  --border: #373a40;
  --accent: #e8a87c;
  --accent-light: #2c2e33;
  --code-bg: #272822;
  --error-bg: #2b1c1c;
  --error-border: #ff6b6b;
}

* { box-sizing: border-box; }
body { margin: 0; font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif; background: var(--bg); color: var(--text); line-height: 1.65; }
a { color: var(--accent); }

.top-bar { position: fixed; top: 0; left: 0; right: 0; height: var(--header-height); display: flex; align-items: center; gap: 12px; padding: 0 16px; background: var(--bg-header); border-bottom: 1px solid var(--border); z-index: 20; }
.site-title { font-weight: 700; font-size: 1.15rem; color: var(--text); text-decoration: none; max-width: 260px; line-height: 1.1; }
.spotlight { position: relative; flex: 1; max-width: 420px; margin-left: auto; }
.spotlight input { width: 100%; padding: 8px 12px; border: 1px solid var(--border); border-radius: 6px; background: var(--bg); color: var(--text); }
.spotlight-results { position: absolute; top: 110%; left: 0; right: 0; background: var(--bg); border: 1px solid var(--border); border-radius: 6px; box-shadow: 0 6px 18px rgba(0,0,0,0.12); max-height: 60vh; overflow: auto; }
.spotlight-results a { display: block; padding: 8px 12px; text-decoration: none; color: var(--text); border-bottom: 1px solid var(--border); }
.spotlight-results a small { display: block; color: var(--text-muted); }
.spotlight-empty { padding: 8px 12px; color: var(--text-muted); }
.icon-link, .theme-toggle, .menu-toggle { background: none; border: 0; color: var(--text); cursor: pointer; display: inline-flex; padding: 6px; }
.menu-toggle { display: none; }
[data-theme="dark"] .sun-icon, .moon-icon { display: none; }
[data-theme="dark"] .moon-icon { display: inline; }

.sidebar { position: fixed; top: var(--header-height); bottom: 0; left: 0; width: var(--sidebar-width); overflow-y: auto; padding: 16px; background: var(--bg-sidebar); border-right: 1px solid var(--border); }
.sidebar ul { list-style: none; margin: 0 0 12px; padding: 0; }
.sidebar li a { display: block; padding: 6px 12px; border-radius: 6px; text-decoration: none; color: var(--text); }
.sidebar li a.active { background: var(--accent); color: #fff; }
.sidebar li a:hover:not(.active) { background: var(--accent-light); }
.nav-group { margin: 16px 12px 6px; }
.sidebar-overlay { display: none; }

.content { margin: var(--header-height) var(--toc-width) 0 var(--sidebar-width); padding: 24px 40px; min-height: calc(100vh - var(--header-height)); }
.page-content h1, .page-content h2, .page-content h3 { scroll-margin-top: calc(var(--header-height) + 16px); }
.page-content pre { padding: 12px; border-radius: 6px; overflow-x: auto; }
.page-content table { border-collapse: collapse; }
.page-content td, .page-content th { border: 1px solid var(--border); padding: 6px 10px; }
.center-message { display: flex; flex-direction: column; align-items: center; justify-content: center; min-height: calc(100vh - 200px); text-align: center; }
.center-message p { color: var(--text-muted); }
.page-footer { display: flex; justify-content: space-between; border-top: 1px solid var(--border); margin-top: 40px; padding-top: 16px; }
.edit-link.disabled { color: var(--text-muted); }

.toc-aside { position: fixed; top: var(--header-height); right: 0; width: var(--toc-width); padding: 16px; overflow-y: auto; bottom: 0; }
.toc ul { list-style: none; margin: 0; padding: 0; }
.toc-entry a { display: block; padding: 3px 8px; text-decoration: none; color: var(--text-muted); border-left: 2px solid transparent; }
.toc-entry.active a { color: var(--accent); border-left-color: var(--accent); }

.index-cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(220px, 1fr)); gap: 12px; }
.index-card { display: block; padding: 14px; border: 1px solid var(--border); border-radius: 8px; text-decoration: none; color: var(--text); }
.index-card span { display: block; color: var(--text-muted); font-size: 0.9rem; }

.mdx-error { border: 1px solid var(--error-border); background: var(--error-bg); border-radius: 6px; padding: 8px 12px; margin: 16px 0; }
.mdx-error-title { font-weight: 700; color: var(--error-border); margin: 0 0 6px; }
.mdx-tabs { border: 1px solid var(--border); border-radius: 6px; margin: 16px 0; }
.mdx-tab-list { display: flex; gap: 4px; border-bottom: 1px solid var(--border); padding: 4px; overflow-x: auto; }
.mdx-tab { background: none; border: 0; padding: 6px 12px; cursor: pointer; color: var(--text-muted); border-radius: 4px; }
.mdx-tab.active { color: var(--text); background: var(--accent-light); }
.mdx-tab-panel { padding: 8px 12px; }
.mdx-tab-panel.hidden { display: none; }
.mdx-tab-panel pre { margin: 0; }
.mdx-code-tabs.expandable:not(.expanded) .mdx-tab-panel pre { max-height: 280px; overflow: hidden; }
.mdx-expand { display: block; width: 100%; border: 0; border-top: 1px solid var(--border); background: none; padding: 6px; cursor: pointer; color: var(--accent); }
.mdx-comparison { margin: 16px 0; }
.mdx-comparison-row { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
.mdx-comparison-head { font-weight: 700; }
.mdx-comparison-cell { border-top: 1px solid var(--border); padding: 8px 0; }
.mdx-comparison-cell.right { text-align: right; }
.mdx-comparison-label { display: block; font-size: 0.8rem; color: var(--text-muted); }
.mdx-accordion { border: 1px solid var(--border); border-radius: 6px; padding: 8px 12px; margin: 16px 0; }
.mdx-accordion summary { cursor: pointer; font-weight: 600; }
.mdx-tags { display: flex; flex-wrap: wrap; gap: 6px; margin: 12px 0; }
.mdx-tag { background: var(--accent-light); color: var(--accent); border-radius: 999px; padding: 2px 10px; font-size: 0.85rem; font-weight: 600; }
.mdx-hover-card { position: relative; display: inline-block; }
.mdx-hover-target { text-decoration: underline dotted; cursor: help; }
.mdx-hover-dropdown { display: none; position: absolute; top: 100%; left: 0; z-index: 5; padding: 8px 12px; background: var(--bg); border: 1px solid var(--border); border-radius: 6px; box-shadow: 0 6px 18px rgba(0,0,0,0.12); }
.mdx-hover-card:hover .mdx-hover-dropdown { display: block; }
.mdx-chessboard { border-collapse: collapse; margin: 16px 0; }
.mdx-chessboard td { width: 45px; height: 45px; text-align: center; font-weight: 700; border: 1px solid var(--border); }
.mdx-chessboard td.dark { background: var(--accent-light); }
.mdx-chessboard th { padding: 4px 8px; }
.mermaid { margin: 16px 0; text-align: center; }

@media (max-width: 1100px) {
  .toc-aside { display: none; }
  .content { margin-right: 0; }
}
@media (max-width: 768px) {
  .menu-toggle { display: inline-flex; }
  .sidebar { transform: translateX(-100%); transition: transform 0.2s; z-index: 15; }
  .sidebar.open { transform: none; }
  .sidebar-overlay.visible { display: block; position: fixed; inset: 0; background: rgba(0,0,0,0.3); z-index: 10; }
  .content { margin-left: 0; padding: 16px; }
}
`

// jsContent wires the theme toggle, widgets, search and the table of contents.
const jsContent = `(function() {
  "use strict";

  var html = document.documentElement;
  var body = document.body;
  var served = body.getAttribute("data-mode") === "serve";
  var base = body.getAttribute("data-base") || "";
  var threshold = parseFloat(body.getAttribute("data-toc-threshold")) || 200;

  // ===== Mermaid =====
  function initMermaid(theme) {
    if (typeof mermaid === "undefined") return;
    mermaid.initialize({ startOnLoad: false, theme: theme, securityLevel: "strict" });
    var nodes = Array.prototype.filter.call(document.querySelectorAll(".mermaid"), function(el) {
      return el.offsetParent !== null && !el.getAttribute("data-processed");
    });
    if (nodes.length) mermaid.run({ nodes: nodes });
  }
  initMermaid(body.getAttribute("data-mermaid-theme") || "default");

  // ===== Theme toggle =====
  var themeToggle = document.getElementById("theme-toggle");
  if (themeToggle) {
    themeToggle.addEventListener("click", function() {
      if (served) {
        fetch("/api/theme", { method: "POST" }).then(function() { window.location.reload(); });
        return;
      }
      var next = html.getAttribute("data-theme") === "dark" ? "light" : "dark";
      html.setAttribute("data-theme", next);
      document.cookie = "daanotes-scheme=" + next + "; path=/; max-age=31536000; samesite=lax";
    });
  }

  // ===== Sidebar (mobile) =====
  var sidebar = document.getElementById("sidebar");
  var overlay = document.getElementById("sidebar-overlay");
  function toggleSidebar() {
    sidebar.classList.toggle("open");
    overlay.classList.toggle("visible");
  }
  var menuToggle = document.getElementById("menu-toggle");
  if (menuToggle) menuToggle.addEventListener("click", toggleSidebar);
  if (overlay) overlay.addEventListener("click", toggleSidebar);

  // ===== Tabs =====
  document.querySelectorAll("[data-tabs]").forEach(function(group) {
    var tabs = group.querySelectorAll(":scope > .mdx-tab-list > .mdx-tab");
    var panels = group.querySelectorAll(":scope > .mdx-tab-panel");
    tabs.forEach(function(tab, i) {
      tab.addEventListener("click", function() {
        tabs.forEach(function(t) { t.classList.remove("active"); });
        panels.forEach(function(p) { p.classList.add("hidden"); });
        tab.classList.add("active");
        panels[i].classList.remove("hidden");
        initMermaid(body.getAttribute("data-mermaid-theme") || "default");
      });
    });
  });
  document.querySelectorAll("[data-expand]").forEach(function(btn) {
    btn.addEventListener("click", function() {
      var group = btn.parentElement;
      var open = group.classList.toggle("expanded");
      btn.textContent = open ? btn.getAttribute("data-less") : btn.getAttribute("data-more");
    });
  });

  // ===== Spotlight search =====
  var input = document.getElementById("spotlight-input");
  var results = document.getElementById("spotlight-results");
  var index = null;

  function escapeHTML(s) {
    return String(s).replace(/[&<>"']/g, function(c) {
      return { "&": "&amp;", "<": "&lt;", ">": "&gt;", '"': "&quot;", "'": "&#39;" }[c];
    });
  }

  function show(entries) {
    if (!entries.length) {
      results.innerHTML = '<div class="spotlight-empty">Nothing found...</div>';
    } else {
      results.innerHTML = entries.map(function(e) {
        var href = served ? e.href : base + e.href;
        return '<a href="' + escapeHTML(href) + '">' + escapeHTML(e.title) + '<small>' + escapeHTML(e.group + (e.description ? " - " + e.description : "")) + '</small></a>';
      }).join("");
    }
    results.hidden = false;
  }

  function localSearch(q) {
    var words = q.toLowerCase().split(/\s+/).filter(Boolean);
    return (index || []).filter(function(e) {
      var hay = (e.title + " " + e.group + " " + e.description).toLowerCase();
      return words.every(function(w) { return hay.indexOf(w) >= 0; });
    });
  }

  if (input && results) {
    if (!served) {
      fetch(base + "search-index.json").then(function(r) { return r.json(); }).then(function(d) { index = d; }).catch(function() {});
    }
    input.addEventListener("input", function() {
      var q = input.value.trim();
      if (!q) { results.hidden = true; return; }
      if (served) {
        fetch("/api/search?q=" + encodeURIComponent(q)).then(function(r) { return r.json(); }).then(show);
      } else {
        show(localSearch(q));
      }
    });
    input.addEventListener("keydown", function(e) {
      if (e.key === "Escape") { input.value = ""; results.hidden = true; }
    });
  }

  // ===== Table of contents =====
  var entries = document.querySelectorAll(".toc-entry");
  if (!entries.length) return;
  // Entries pair with article headings in document order so repeated ids
  // resolve to distinct elements.
  var candidates = document.querySelectorAll("#page-content h1[id], #page-content h2[id], #page-content h3[id], #page-content h4[id], #page-content h5[id], #page-content h6[id]");
  var cursor = 0;
  var headings = Array.prototype.map.call(entries, function(li) {
    var id = li.querySelector("a").getAttribute("href").slice(1);
    for (var k = cursor; k < candidates.length; k++) {
      if (candidates[k].id === id) { cursor = k + 1; return candidates[k]; }
    }
    return null;
  });

  function setActive(i) {
    if (i < 0) return;
    entries.forEach(function(li, j) { li.classList.toggle("active", i === j); });
  }

  function offsets() {
    return headings.map(function(h) {
      return h && h.offsetParent !== null ? h.getBoundingClientRect().top : null;
    });
  }

  if (served && window.WebSocket) {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws/toc?route=" + encodeURIComponent(body.getAttribute("data-route")));
    var pending = false;
    ws.onopen = function() { ws.send(JSON.stringify({ type: "mount", offsets: offsets() })); };
    ws.onmessage = function(ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "active") setActive(msg.index);
      if (msg.type === "reload") window.location.reload();
    };
    window.addEventListener("scroll", function() {
      if (pending || ws.readyState !== 1) return;
      pending = true;
      requestAnimationFrame(function() {
        pending = false;
        ws.send(JSON.stringify({ type: "scroll", offsets: offsets() }));
      });
    }, { passive: true });
    return;
  }

  function nearest() {
    var o = offsets(), best = -1, bestDist = Infinity;
    o.forEach(function(v, i) {
      if (v === null) return;
      var d = Math.abs(v - threshold);
      if (d < bestDist) { best = i; bestDist = d; }
    });
    return best;
  }
  setActive(nearest());
  window.addEventListener("scroll", function() { setActive(nearest()); }, { passive: true });
})();
`

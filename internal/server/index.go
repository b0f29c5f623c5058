package server

import "net/http"

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>Signal Hunter</title>
  <style>
    body { font-family: "Segoe UI", sans-serif; margin: 0; background: #09090b; color: #e4e4e7; }
    .wrap { max-width: 760px; margin: 48px auto; padding: 0 16px; }
    h1 { letter-spacing: -1px; }
    form { display: flex; gap: 8px; margin: 24px 0; }
    input { flex: 1; padding: 12px; border-radius: 8px; border: 1px solid #3f3f46; background: #18181b; color: #fff; }
    button { padding: 12px 20px; border-radius: 8px; border: none; background: #10b981; color: #000; font-weight: 700; cursor: pointer; }
    #status { color: #a1a1aa; min-height: 1.4em; }
    .problem { border: 1px solid #27272a; border-radius: 10px; padding: 12px 16px; margin: 10px 0; background: #101012; }
    .cat { font-size: 11px; font-weight: 700; letter-spacing: 1px; }
    .GOLD_MINE { color: #fbbf24; } .NICHE_GEM { color: #34d399; } .NOISE { color: #71717a; }
    blockquote { color: #a1a1aa; border-left: 2px solid #3f3f46; margin: 8px 0; padding-left: 10px; }
  </style>
</head>
<body>
  <div class="wrap">
    <h1>SIGNAL HUNTER</h1>
    <form id="f">
      <input id="q" placeholder="What niche are we hunting today?" autocomplete="off" />
      <button type="submit">HUNT</button>
    </form>
    <div id="status"></div>
    <div id="out"></div>
  </div>
  <script>
    const f = document.getElementById('f'), q = document.getElementById('q');
    const statusEl = document.getElementById('status'), out = document.getElementById('out');
    f.addEventListener('submit', (e) => {
      e.preventDefault();
      if (!q.value.trim()) return;
      out.innerHTML = '';
      const proto = location.protocol === 'https:' ? 'wss' : 'ws';
      const ws = new WebSocket(proto + '://' + location.host + '/api/hunt/ws?query=' + encodeURIComponent(q.value));
      ws.onmessage = (ev) => {
        const frame = JSON.parse(ev.data);
        if (frame.status) statusEl.textContent = '[' + frame.status.stage + '] ' + frame.status.message;
        if (frame.type === 'result' && frame.result) render(frame.result);
        if (frame.type === 'error') statusEl.textContent = frame.error;
        if (frame.type !== 'status') fetch('/api/reset', { method: 'POST' });
      };
    });
    function render(r) {
      for (const p of r.problems) {
        const div = document.createElement('div');
        div.className = 'problem';
        div.innerHTML = '<span class="cat ' + p.category + '">' + p.category + '</span>' +
          '<h3>' + esc(p.title) + '</h3>' +
          '<div>pain ' + p.pain_score + '/10 &middot; frequency ' + p.frequency_score + '/10</div>' +
          '<blockquote>' + esc(p.evidence) + '</blockquote>' +
          '<div><b>' + esc(p.solution_idea.title) + '</b> (' + esc(p.solution_idea.type) + ') &mdash; ' + esc(p.solution_idea.pitch) + '</div>';
        out.appendChild(div);
      }
      if (!r.problems.length) out.textContent = 'No signals found.';
    }
    function esc(s) { const d = document.createElement('div'); d.textContent = s || ''; return d.innerHTML; }
  </script>
</body>
</html>
`

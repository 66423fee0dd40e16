package preview

import "strings"

// hostScript forwards clicks on relative .html links to the embedding window
// and reloads the page when the server pushes a new file map.
const hostScript = `<script data-onprty-preview>
(function () {
  if (window.parent !== window) {
    document.addEventListener('click', function (e) {
      var a = e.target && e.target.closest ? e.target.closest('a[href]') : null;
      if (!a) return;
      var href = a.getAttribute('href');
      if (!/^[^\/:?#]+\.html$/.test(href)) return;
      e.preventDefault();
      window.parent.postMessage({type: 'navigate', file: href}, '*');
    });
  }
  var proto = location.protocol === 'https:' ? 'wss:' : 'ws:';
  var ws = new WebSocket(proto + '//' + location.host + '/ws');
  ws.onmessage = function (e) {
    try {
      if (JSON.parse(e.data).type === 'reload') location.reload();
    } catch (_) {}
  };
})();
</script>`

// inject places hostScript before the last </body>, or appends it when the
// page has no closing body tag.
func inject(page string) string {
	i := strings.LastIndex(strings.ToLower(page), "</body>")
	if i < 0 {
		return page + hostScript
	}
	return page[:i] + hostScript + page[i:]
}

package preview

import (
	"context"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/livefir/onprty/internal/site"
)

func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}
	t.Skip("Skipping browser test: Chrome not found")
}

// A framed preview page hands relative .html link clicks to its host
// instead of navigating.
func TestFramedLinksNavigateHost(t *testing.T) {
	requireChrome(t)

	s := New()
	s.Update(site.Files{
		"host.html": `<!DOCTYPE html><html><body>
<iframe id="frame" src="index.html"></iframe>
<script>
window.navigated = [];
window.addEventListener('message', function (e) {
  if (e.data && e.data.type === 'navigate') window.navigated.push(e.data.file);
});
</script>
</body></html>`,
		"index.html": `<!DOCTYPE html><html><body>
<a id="about" href="about.html">About</a>
<a id="external" href="https://example.com/x.html">External</a>
</body></html>`,
		"about.html": `<!DOCTYPE html><html><body><h1>About</h1></body></html>`,
	})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	defer s.Close()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancel()
	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var (
		ready     bool
		navigated []string
		framePath string
	)
	err := chromedp.Run(ctx,
		chromedp.Navigate(srv.URL+"/host.html"),
		chromedp.Poll(`(function () {
			var f = document.getElementById('frame');
			return !!(f && f.contentDocument && f.contentDocument.readyState === 'complete' &&
				f.contentDocument.querySelector('script[data-onprty-preview]'));
		})()`, &ready, chromedp.WithPollingTimeout(10*time.Second)),
		chromedp.Evaluate(`document.getElementById('frame').contentDocument.getElementById('about').click()`, nil),
		chromedp.Poll(`window.navigated.length > 0`, &ready, chromedp.WithPollingTimeout(5*time.Second)),
		chromedp.Evaluate(`window.navigated`, &navigated),
		chromedp.Evaluate(`document.getElementById('frame').contentWindow.location.pathname`, &framePath),
	)
	if err != nil {
		t.Fatalf("browser run failed: %v", err)
	}

	if len(navigated) != 1 || navigated[0] != "about.html" {
		t.Errorf("navigate messages = %v, want [about.html]", navigated)
	}
	if framePath != "/index.html" {
		t.Errorf("frame navigated to %q, want it to stay on /index.html", framePath)
	}
}

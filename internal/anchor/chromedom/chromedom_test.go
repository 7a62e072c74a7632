package chromedom

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/materials/internal/anchor"
)

func TestExpressions(t *testing.T) {
	assert.Equal(t, `document.getElementById("intro")`, elementByIDExpr("intro"))
	assert.Equal(t, `document.getElementById("a\"b")`, elementByIDExpr(`a"b`))
	assert.Equal(t, `(document.body) !== null`, notNullExpr("document.body"))
	assert.Equal(
		t,
		`getComputedStyle(document.documentElement).getPropertyValue("--nav-height")`,
		computedStyleExpr("document.documentElement", "--nav-height"),
	)
	assert.Equal(t, `(window.scrollTo({top: 478.5, behavior: "smooth"}), true)`, scrollToExpr(478.5, true))
	assert.Equal(t, `(window.scrollTo({top: -6, behavior: "auto"}), true)`, scrollToExpr(-6, false))
}

const testPage = `<!doctype html>
<html style="--nav-height: 4rem; font-size: 10px">
<body style="margin: 0">
<div style="height: 300px"></div>
<div style="position: relative; top: 0">
  <div style="height: 200px"></div>
  <h2 id="target" style="margin-top: 6px; padding-top: 4px">Target</h2>
</div>
<div style="height: 3000px"></div>
</body>
</html>`

// TestScrollInBrowser needs a local Chrome; set CHROMEDP_TEST=1 to run it.
func TestScrollInBrowser(t *testing.T) {
	if os.Getenv("CHROMEDP_TEST") == "" {
		t.Skip("CHROMEDP_TEST is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	browserCtx, closeBrowser, err := NewBrowser(ctx, true)
	require.NoError(t, err)
	defer closeBrowser()

	require.NoError(t, chromedp.Run(browserCtx, chromedp.Navigate("data:text/html,"+url.PathEscape(testPage))))

	err = anchor.Scroll(browserCtx, Host{}, "missing-id")
	require.NoError(t, err)

	err = anchor.Scroll(browserCtx, Host{}, "target")
	require.NoError(t, err)

	// 300 + 200 + 6 (h2 offsetTop includes its margin) - 40 - (4 + 6)
	var scrollY float64
	require.Eventually(t, func() bool {
		if err := chromedp.Run(browserCtx, chromedp.Evaluate(`window.scrollY`, &scrollY)); err != nil {
			return false
		}
		return scrollY == 456
	}, 5*time.Second, 50*time.Millisecond)
}

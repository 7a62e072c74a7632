// Package chromedom implements anchor.Document on top of a Chrome tab
// driven through chromedp. Elements are addressed by JavaScript
// expressions that are evaluated in the page on every read.
package chromedom

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/patric-chuzhbe/materials/internal/anchor"
)

// NewBrowser starts a Chrome instance and returns a context bound to its
// first tab. The returned cancel function shuts the browser down.
func NewBrowser(ctx context.Context, headless bool) (context.Context, context.CancelFunc, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx, runtime.Enable()); err != nil {
		browserCancel()
		allocCancel()
		return nil, nil, fmt.Errorf("starting browser: %w", err)
	}

	cancel := func() {
		browserCancel()
		allocCancel()
	}

	return browserCtx, cancel, nil
}

// Host exposes the document of the tab bound to the context passed to
// each Document call.
type Host struct{}

func (Host) Document() (anchor.Document, bool) {
	return Document{}, true
}

// Document is the page loaded in a chromedp tab. The tab is taken from
// the context of each call, so one value serves any tab.
type Document struct{}

func (Document) ElementByID(ctx context.Context, id string) (anchor.Element, bool, error) {
	el := Element{expr: elementByIDExpr(id)}

	var exists bool
	if err := evaluate(ctx, notNullExpr(el.expr), &exists); err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}

	return el, true, nil
}

func (Document) RootStyle(ctx context.Context, property string) (string, error) {
	var value string
	err := evaluate(ctx, computedStyleExpr("document.documentElement", property), &value)
	return value, err
}

func (Document) ScrollTo(ctx context.Context, top float64, smooth bool) error {
	var done bool
	return evaluate(ctx, scrollToExpr(top, smooth), &done)
}

// Element is a DOM element reached by evaluating expr.
type Element struct {
	expr string
}

func (e Element) OffsetTop(ctx context.Context) (float64, error) {
	var top float64
	err := evaluate(ctx, "("+e.expr+").offsetTop", &top)
	return top, err
}

func (e Element) OffsetParent(ctx context.Context) (anchor.Element, bool, error) {
	parent := Element{expr: "(" + e.expr + ").offsetParent"}

	var exists bool
	if err := evaluate(ctx, notNullExpr(parent.expr), &exists); err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}

	return parent, true, nil
}

func (e Element) IsBody(ctx context.Context) (bool, error) {
	var isBody bool
	err := evaluate(ctx, "("+e.expr+") === document.body", &isBody)
	return isBody, err
}

func (e Element) ComputedStyle(ctx context.Context, property string) (string, error) {
	var value string
	err := evaluate(ctx, computedStyleExpr(e.expr, property), &value)
	return value, err
}

func evaluate(ctx context.Context, expr string, res interface{}) error {
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, res)); err != nil {
		return fmt.Errorf("evaluating %s: %w", expr, err)
	}
	return nil
}

func elementByIDExpr(id string) string {
	return "document.getElementById(" + jsString(id) + ")"
}

func notNullExpr(expr string) string {
	return "(" + expr + ") !== null"
}

func computedStyleExpr(elementExpr, property string) string {
	return "getComputedStyle(" + elementExpr + ").getPropertyValue(" + jsString(property) + ")"
}

func scrollToExpr(top float64, smooth bool) string {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	return "(window.scrollTo({top: " + strconv.FormatFloat(top, 'f', -1, 64) +
		`, behavior: "` + behavior + `"}), true)`
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	quoted, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(quoted)
}

// Package anchor scrolls a document to a named element, leaving room for
// a fixed navigation bar whose height is a CSS custom property in rem.
//
// The document is reached through a Host, so the same code runs against a
// real browser (see package chromedom), an in-memory tree in tests, or no
// document at all.
package anchor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/patric-chuzhbe/materials/internal/logger"
)

// DefaultNavHeightProperty is the custom property read when no other
// name is configured.
const DefaultNavHeightProperty = "--nav-height"

// Element is the subset of a DOM element the scroller reads.
type Element interface {
	OffsetTop(ctx context.Context) (float64, error)
	// OffsetParent returns ok == false when the element has no offset parent.
	OffsetParent(ctx context.Context) (parent Element, ok bool, err error)
	IsBody(ctx context.Context) (bool, error)
	ComputedStyle(ctx context.Context, property string) (string, error)
}

// Document is the subset of a DOM document the scroller reads and drives.
type Document interface {
	ElementByID(ctx context.Context, id string) (el Element, ok bool, err error)
	// RootStyle reads a computed property of the root element.
	RootStyle(ctx context.Context, property string) (string, error)
	// ScrollTo starts scrolling the window; it does not wait for the
	// animation to finish.
	ScrollTo(ctx context.Context, top float64, smooth bool) error
}

// Host is the environment the scroller runs in.
type Host interface {
	// Document returns ok == false when there is no document.
	Document() (doc Document, ok bool)
}

// NoDocument is a Host without a document. Scrolling in it is a no-op.
type NoDocument struct{}

func (NoDocument) Document() (Document, bool) {
	return nil, false
}

type browserHost struct {
	doc Document
}

func (h browserHost) Document() (Document, bool) {
	return h.doc, h.doc != nil
}

// WithDocument returns a Host that exposes doc.
func WithDocument(doc Document) Host {
	return browserHost{doc: doc}
}

type Option func(*options)

type options struct {
	navHeightProperty string
}

// WithNavHeightProperty overrides the custom property holding the
// navigation bar height.
func WithNavHeightProperty(name string) Option {
	return func(o *options) {
		o.navHeightProperty = name
	}
}

// Scroll smoothly scrolls the host document so that the element with id
// anchorName sits right under the navigation bar. It does nothing when the
// host has no document or the element does not exist.
func Scroll(ctx context.Context, host Host, anchorName string, optionsProto ...Option) error {
	o := &options{
		navHeightProperty: DefaultNavHeightProperty,
	}
	for _, protoOption := range optionsProto {
		protoOption(o)
	}

	doc, ok := host.Document()
	if !ok {
		return nil
	}

	el, found, err := doc.ElementByID(ctx, anchorName)
	if err != nil {
		return fmt.Errorf("looking up anchor %q: %w", anchorName, err)
	}
	if !found {
		logger.Log.Debugln("anchor not found", "anchor", anchorName)
		return nil
	}

	offset, err := documentOffset(ctx, el)
	if err != nil {
		return fmt.Errorf("measuring anchor %q: %w", anchorName, err)
	}

	spacing, err := topSpacing(ctx, el)
	if err != nil {
		return fmt.Errorf("reading anchor %q style: %w", anchorName, err)
	}

	navHeight, err := navHeightPixels(ctx, doc, o.navHeightProperty)
	if err != nil {
		return fmt.Errorf("reading navigation height: %w", err)
	}

	top := offset - navHeight - float64(spacing)
	logger.Log.Debugln(
		"scrolling to anchor",
		"anchor", anchorName,
		"offset", offset,
		"navHeight", navHeight,
		"spacing", spacing,
		"top", top,
	)

	return doc.ScrollTo(ctx, top, true)
}

// documentOffset sums offsetTop along the offset-parent chain. The body
// is not added: its offset is already part of its children's.
func documentOffset(ctx context.Context, el Element) (float64, error) {
	offset, err := el.OffsetTop(ctx)
	if err != nil {
		return 0, err
	}

	current := el
	for {
		parent, ok, parentErr := current.OffsetParent(ctx)
		if parentErr != nil {
			return 0, parentErr
		}
		if !ok {
			return offset, nil
		}

		isBody, bodyErr := parent.IsBody(ctx)
		if bodyErr != nil {
			return 0, bodyErr
		}
		if isBody {
			return offset, nil
		}

		parentOffset, offsetErr := parent.OffsetTop(ctx)
		if offsetErr != nil {
			return 0, offsetErr
		}
		offset += parentOffset
		current = parent
	}
}

func topSpacing(ctx context.Context, el Element) (int, error) {
	padding, err := el.ComputedStyle(ctx, "padding-top")
	if err != nil {
		return 0, err
	}
	margin, err := el.ComputedStyle(ctx, "margin-top")
	if err != nil {
		return 0, err
	}

	return leadingInt(padding) + leadingInt(margin), nil
}

func navHeightPixels(ctx context.Context, doc Document, property string) (float64, error) {
	navHeight, err := doc.RootStyle(ctx, property)
	if err != nil {
		return 0, err
	}
	fontSize, err := doc.RootStyle(ctx, "font-size")
	if err != nil {
		return 0, err
	}

	return leadingFloat(navHeight) * leadingFloat(fontSize), nil
}

// leadingInt parses the integer at the start of s, so "12.5px" is 12.
// Anything without a leading integer is 0.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// leadingFloat parses the decimal number at the start of s, so "4.5rem"
// is 4.5. Anything without a leading number is 0.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0
	}
	return f
}

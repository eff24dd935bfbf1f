package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
)

// LoginPageHTML mimics the LinkedIn login form
const LoginPageHTML = `<html><body>
<form>
  <input id="username" type="text">
  <input id="password" type="password">
  <button type="submit">Sign in</button>
</form>
</body></html>`

// ProfilePageHTML renders a profile page with the given fields
func ProfilePageHTML(name, headline, location string) string {
	return fmt.Sprintf(`<html><body><main>
<section class="artdeco-card">
  <h1 class="text-heading-xlarge inline t-24">%s</h1>
  <div class="text-body-medium break-words">%s</div>
  <div><span class="text-body-small inline t-black--light">%s</span></div>
</section>
</main></body></html>`, name, headline, location)
}

// FakeDriver is an in-memory browser. Pages are keyed by URL and queried
// with goquery; waits for missing selectors block until ctx is done.
type FakeDriver struct {
	mu sync.Mutex

	Pages map[string]string

	// Redirect returns the address the browser lands on after the login
	// form is submitted.
	Redirect func(email, password string) string

	// Errors makes the named method (e.g. "Navigate") fail.
	Errors map[string]error

	current    string
	typed      map[string]string
	calls      []string
	closeCalls int
	closed     bool
}

// NewFakeDriver returns a driver with no pages loaded
func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		Pages:  map[string]string{},
		Errors: map[string]error{},
		typed:  map[string]string{},
	}
}

func (d *FakeDriver) enter(method string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, method)
	if d.closed {
		return errors.New("fake driver closed")
	}
	return d.Errors[method]
}

func (d *FakeDriver) document() (*goquery.Document, error) {
	d.mu.Lock()
	html, ok := d.Pages[d.current]
	d.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no page loaded at %q", d.current)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

func (d *FakeDriver) has(sel string) bool {
	doc, err := d.document()
	if err != nil {
		return false
	}
	return doc.Find(sel).Length() > 0
}

func (d *FakeDriver) Navigate(ctx context.Context, url string) error {
	if err := d.enter("Navigate"); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.Pages[url]; !ok {
		return fmt.Errorf("page load error net::ERR_NAME_NOT_RESOLVED: %s", url)
	}
	d.current = url
	return nil
}

func (d *FakeDriver) WaitReady(ctx context.Context, sel string) error {
	if err := d.enter("WaitReady"); err != nil {
		return err
	}
	if d.has(sel) {
		return nil
	}
	<-ctx.Done()
	return ctx.Err()
}

func (d *FakeDriver) SendKeys(ctx context.Context, sel, text string) error {
	if err := d.enter("SendKeys"); err != nil {
		return err
	}
	if !d.has(sel) {
		<-ctx.Done()
		return ctx.Err()
	}
	d.mu.Lock()
	d.typed[sel] += text
	d.mu.Unlock()
	return nil
}

func (d *FakeDriver) Click(ctx context.Context, sel string) error {
	if err := d.enter("Click"); err != nil {
		return err
	}
	if !d.has(sel) {
		<-ctx.Done()
		return ctx.Err()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Redirect != nil {
		d.current = d.Redirect(d.typed["#username"], d.typed["#password"])
	}
	d.typed = map[string]string{}
	return nil
}

func (d *FakeDriver) Text(ctx context.Context, sel string) (string, error) {
	if err := d.enter("Text"); err != nil {
		return "", err
	}
	doc, err := d.document()
	if err != nil {
		return "", err
	}
	s := doc.Find(sel).First()
	if s.Length() == 0 {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return strings.TrimSpace(s.Text()), nil
}

func (d *FakeDriver) Location(ctx context.Context) (string, error) {
	if err := d.enter("Location"); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, nil
}

func (d *FakeDriver) OuterHTML(ctx context.Context) (string, error) {
	if err := d.enter("OuterHTML"); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	html, ok := d.Pages[d.current]
	if !ok {
		return "", fmt.Errorf("no page loaded at %q", d.current)
	}
	return html, nil
}

func (d *FakeDriver) Alive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed
}

func (d *FakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeCalls++
	d.closed = true
	return nil
}

// Calls returns the driver methods invoked so far, in order
func (d *FakeDriver) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// CloseCalls returns how many times Close was called
func (d *FakeDriver) CloseCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeCalls
}

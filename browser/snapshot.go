package browser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Snapshot replays saved pages instead of driving a real browser. Pages are
// looked up in the configured url -> file map first and fetched over HTTP
// otherwise. Scripts never run, so waits resolve immediately against the
// static document: a wait whose condition does not already hold fails with
// ErrTimeout.
type Snapshot struct {
	options
	current   *url.URL
	doc       *html.Node
	downloads []string
	closed    bool
}

func newSnapshot(o options) *Snapshot {
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
		if o.proxy != nil {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = o.proxy
			o.client.Transport = transport
		}
	}
	return &Snapshot{options: o}
}

// Downloads lists the files written by clicks on pdf links, in order.
func (s *Snapshot) Downloads() []string {
	return s.downloads
}

func (s *Snapshot) SetDownloadDir(dir string) error {
	s.downloadDir = dir
	return nil
}

func (s *Snapshot) Open(rawURL string) error {
	return s.Navigate(rawURL)
}

func (s *Snapshot) Navigate(rawURL string) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.limit.Wait(context.Background()); err != nil {
		return err
	}
	u, err := s.resolve(rawURL)
	if err != nil {
		return err
	}
	body, err := s.read(u)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", u, err)
	}
	defer body.Close()

	r := bufio.NewReader(body)
	e := DeterminEncoding(r, s.logger)
	doc, err := htmlquery.Parse(transform.NewReader(r, e.NewDecoder()))
	if err != nil {
		return fmt.Errorf("parse %s: %w", u, err)
	}
	s.current = u
	s.doc = doc
	s.logger.Debug("snapshot navigate", zap.String("url", u.String()))
	return nil
}

func (s *Snapshot) resolve(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if s.current != nil {
		u = s.current.ResolveReference(u)
	}
	return u, nil
}

func (s *Snapshot) read(u *url.URL) (io.ReadCloser, error) {
	if file, ok := s.pages[u.String()]; ok {
		return os.Open(file)
	}
	resp, err := s.client.Get(u.String())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("error status code:%d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s *Snapshot) query(expr string) ([]*html.Node, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.doc == nil {
		return nil, fmt.Errorf("query %s: no page loaded", expr)
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", expr, err)
	}
	return htmlquery.QuerySelectorAll(s.doc, compiled), nil
}

func (s *Snapshot) first(expr string) (*html.Node, error) {
	nodes, err := s.query(expr)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%s: %w", expr, ErrNotFound)
	}
	return nodes[0], nil
}

// Click follows anchors. Links to .pdf files are saved into the download
// directory under the last path segment instead of being opened. Clicks on
// anything else are accepted and do nothing.
func (s *Snapshot) Click(expr string) error {
	n, err := s.first(expr)
	if err != nil {
		return fmt.Errorf("click: %w", err)
	}
	href := htmlquery.SelectAttr(n, "href")
	if n.Data != "a" || href == "" {
		return nil
	}
	u, err := s.resolve(href)
	if err != nil {
		return err
	}
	if strings.EqualFold(path.Ext(u.Path), ".pdf") {
		return s.download(u)
	}
	return s.Navigate(u.String())
}

func (s *Snapshot) download(u *url.URL) error {
	if s.downloadDir == "" {
		return fmt.Errorf("download %s: no download directory", u)
	}
	body, err := s.read(u)
	if err != nil {
		return fmt.Errorf("download %s: %w", u, err)
	}
	defer body.Close()

	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(s.downloadDir, path.Base(u.Path))
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	s.downloads = append(s.downloads, dst)
	s.logger.Debug("snapshot download", zap.String("file", dst))
	return nil
}

func (s *Snapshot) ClickLink(partial string) error {
	return s.Click(PartialLinkXPath(partial))
}

// Select only checks the option exists; a snapshot is already fully rendered.
func (s *Snapshot) Select(expr string, option int) error {
	if _, err := s.first(fmt.Sprintf("%s/option[%d]", expr, option)); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	return nil
}

func (s *Snapshot) Text(expr string) (string, error) {
	n, err := s.first(expr)
	if err != nil {
		return "", fmt.Errorf("text: %w", err)
	}
	return renderText(n), nil
}

func (s *Snapshot) Attribute(expr, name string) (string, error) {
	n, err := s.first(expr)
	if err != nil {
		return "", fmt.Errorf("attribute: %w", err)
	}
	v := htmlquery.SelectAttr(n, name)
	if name == "href" || name == "src" {
		if u, err := s.resolve(v); err == nil {
			v = u.String()
		}
	}
	return v, nil
}

func (s *Snapshot) Count(expr string) (int, error) {
	nodes, err := s.query(expr)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func (s *Snapshot) WaitVisible(expr string, timeout time.Duration) error {
	n, err := s.Count(expr)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("wait visible %s: %w after %s", expr, ErrTimeout, timeout)
	}
	return nil
}

func (s *Snapshot) WaitAbsent(expr string, timeout time.Duration) error {
	n, err := s.Count(expr)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("wait absent %s: %w after %s", expr, ErrTimeout, timeout)
	}
	return nil
}

func (s *Snapshot) Close() error {
	s.closed = true
	s.doc = nil
	return nil
}

// renderText approximates innerText: every non-blank text node on its own
// line, scripts and styles skipped.
func renderText(n *html.Node) string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				lines = append(lines, t)
			}
			return
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(lines, "\n")
}

// DeterminEncoding sniffs the first KB and falls back to UTF-8. An empty
// body is not an error here; parsing it yields an empty document.
func DeterminEncoding(r *bufio.Reader, logger *zap.Logger) encoding.Encoding {
	bytes, err := r.Peek(1024)
	if err != nil && len(bytes) == 0 {
		logger.Debug("empty body, assuming utf-8", zap.Error(err))
		return unicode.UTF8
	}
	e, _, _ := charset.DetermineEncoding(bytes, "")
	return e
}

package whttp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sw33tLie/genscope/internal/utils"
	"golang.org/x/net/html"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:83.0) Gecko/20100101 Firefox/83.0"
	DefaultRetries   = 2
	DefaultTimeout   = 30 * time.Second
)

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL        string
	Method     string
	CustomHost string
	Headers    []WHTTPHeader
}

type WHTTPRes struct {
	StatusCode     int
	ResponseLength int
	HTTPTitle      string
	BodyString     string
}

var (
	defaultClient = newClient(DefaultRetries, DefaultTimeout)
	userAgent     = DefaultUserAgent
)

func newClient(retries int, timeout time.Duration) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = logrusAdapter{}
	c.RetryMax = retries
	c.HTTPClient.Timeout = timeout
	// Hand the last response back instead of an error so callers can see the status code.
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}

// GetDefaultClient returns the client used when SendHTTPRequest gets a nil client.
func GetDefaultClient() *retryablehttp.Client {
	return defaultClient
}

// SetupClient replaces the default client's retry and timeout policy.
func SetupClient(retries int, timeout time.Duration) {
	if retries < 0 {
		retries = 0
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	defaultClient.RetryMax = retries
	defaultClient.HTTPClient.Timeout = timeout
}

// SetUserAgent overrides the User-Agent sent with every request.
func SetUserAgent(ua string) {
	if ua != "" {
		userAgent = ua
	}
}

// SetupProxy routes the default client through an HTTP proxy. Certificate checks are
// disabled so intercepting proxies (Burp, mitmproxy) work.
func SetupProxy(proxy string) error {
	proxyURL, err := url.Parse(proxy)
	if err != nil || proxyURL.Host == "" {
		return fmt.Errorf("invalid proxy URL: %s", proxy)
	}

	defaultClient.HTTPClient.Transport = &http.Transport{
		Proxy:           http.ProxyURL(proxyURL),
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
	return nil
}

func SendHTTPRequest(ctx context.Context, wReq *WHTTPReq, client *retryablehttp.Client) (wRes *WHTTPRes, err error) {
	if client == nil {
		client = defaultClient
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, wReq.Method, wReq.URL, nil)
	if err != nil {
		return nil, err
	}

	// Set custom Host header
	if wReq.CustomHost != "" {
		req.Host = wReq.CustomHost
	} else {
		if strings.HasSuffix(req.Host, ":80") {
			req.Host = strings.TrimSuffix(req.Host, ":80")
		} else if strings.HasSuffix(req.Host, ":443") {
			req.Host = strings.TrimSuffix(req.Host, ":443")
		}
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Cache-Control", "no-transform")
	req.Header.Set("Connection", "close")
	req.Header.Set("Accept-Language", "en")

	for _, h := range wReq.Headers {
		req.Header.Add(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	wRes = &WHTTPRes{
		StatusCode: resp.StatusCode,
		BodyString: string(bodyBytes),
	}

	if title, ok := getHTMLTitle(wRes.BodyString); ok {
		wRes.HTTPTitle = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
	}

	wRes.ResponseLength = utf8.RuneCountInString(wRes.BodyString)
	return wRes, nil
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}

func getHTMLTitle(body string) (string, bool) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		utils.Log.Debugf("Failed to parse HTML title: %v", err)
		return "", false
	}

	return traverse(doc)
}

// logrusAdapter forwards retryablehttp's leveled logging to the shared logger.
type logrusAdapter struct{}

func (logrusAdapter) Error(msg string, kv ...interface{}) { utils.Log.WithFields(fields(kv)).Error(msg) }
func (logrusAdapter) Info(msg string, kv ...interface{})  { utils.Log.WithFields(fields(kv)).Debug(msg) }
func (logrusAdapter) Debug(msg string, kv ...interface{}) { utils.Log.WithFields(fields(kv)).Debug(msg) }
func (logrusAdapter) Warn(msg string, kv ...interface{})  { utils.Log.WithFields(fields(kv)).Warn(msg) }

func fields(kv []interface{}) map[string]interface{} {
	f := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}

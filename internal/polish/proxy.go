package polish

import (
	"net/http"
	"net/url"
)

// WithProxy routes endpoint calls through explicit proxies. Empty values
// fall back to HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func WithProxy(httpProxy, httpsProxy string) ClientOption {
	return func(c *Client) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = proxyFunc(httpProxy, httpsProxy)
		c.httpClient.Transport = transport
	}
}

func proxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

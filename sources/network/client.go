package network

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"coronabot/sources/configuration"
	"coronabot/sources/tracing"

	"golang.org/x/net/proxy"
)

// NewClient builds the shared HTTP client used by every upstream adapter.
// When proxy_address is configured, dialing goes through SOCKS5.
func NewClient(config *configuration.Config, log *tracing.Logger) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          20,
		IdleConnTimeout:       10 * time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,
		MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
		OnProxyConnectResponse: func(ctx context.Context, proxyURL *url.URL, connectReq *http.Request, connectRes *http.Response) error {
			log.I("Connected to proxy", tracing.ProxyUrl, proxyURL.String(), tracing.ProxyRes, connectRes.Status)
			return nil
		},
	}

	if config.Network.ProxyAddress != "" {
		var auth *proxy.Auth
		if config.Network.ProxyUser != "" {
			auth = &proxy.Auth{User: config.Network.ProxyUser, Password: config.Network.ProxyPass}
		}

		dialer, err := proxy.SOCKS5("tcp", config.Network.ProxyAddress, auth, proxy.Direct)
		if err != nil {
			log.F("Failed to initialize proxy dialer", tracing.InnerError, err)
		}

		transport.DialContext = func(ctx context.Context, network, address string) (net.Conn, error) {
			return dialer.Dial(network, address)
		}

		log.I("HTTP client initialized with SOCKS proxy", tracing.ProxyUrl, config.Network.ProxyAddress)
	} else {
		log.I("HTTP client initialized")
	}

	return &http.Client{
		Timeout:   time.Duration(config.Network.TimeoutSeconds) * time.Second,
		Transport: transport,
	}
}

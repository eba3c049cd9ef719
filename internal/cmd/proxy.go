package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/sakani/internal/config"
	"github.com/jimezsa/sakani/internal/network"
)

type ProxyCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Validate the configured gateway against a target URL."`
}

type ProxyCheckCmd struct {
	Target  string `help:"Target URL." default:"https://sakani.sa"`
	Timeout int    `help:"Timeout in seconds." default:"15"`
	Direct  bool   `help:"Also check a direct connection for comparison."`
}

type ProxyCheckResult struct {
	Route     string `json:"route"`
	Gateway   string `json:"gateway,omitempty"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	proxyConfig, err := config.LoadProxy()
	if err != nil {
		return err
	}

	results := make([]ProxyCheckResult, 0, 2)
	if proxyConfig.Enabled {
		results = append(results, p.check(ctx, "proxy", proxyConfig))
	} else {
		ctx.UI.Warnf("proxy is disabled; set %s=True to enable the gateway", config.EnvUseProxy)
	}
	if p.Direct || !proxyConfig.Enabled {
		results = append(results, p.check(ctx, "direct", proxyConfig.Disabled()))
	}

	return writeProxyResults(ctx, results)
}

func (p *ProxyCheckCmd) check(ctx *Context, route string, proxyConfig config.ProxyConfig) ProxyCheckResult {
	result := ProxyCheckResult{Route: route}
	if proxyConfig.Enabled {
		result.Gateway = proxyConfig.Endpoint
	}

	timeout := time.Duration(p.Timeout) * time.Second
	limiter := network.NewLimiter(timeout, ctx.Logger)
	client, err := network.NewClient(proxyConfig, limiter, 0, ctx.Logger)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	reqCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	status, err := client.Ping(reqCtx, p.Target)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}
	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status = strconv.Itoa(status)
	return result
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		enc := json.NewEncoder(ctx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "route\tgateway\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", res.Route, res.Gateway, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}

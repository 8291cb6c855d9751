package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/wesleyorama2/hintprobe/internal/output"
)

// HTMLOptions controls HTML rendering.
type HTMLOptions struct {
	// Threshold is the band threshold in milliseconds.
	Threshold float64
}

// htmlData is what the template sees.
type htmlData struct {
	*Report
	Threshold float64
}

// WriteHTML renders rep as a static HTML page.
func WriteHTML(w io.Writer, rep *Report, opts HTMLOptions) error {
	html, err := GenerateHTMLString(rep, opts)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}
	if _, err := io.WriteString(w, html); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	return nil
}

// GenerateHTML renders rep and writes it to outputPath.
func GenerateHTML(rep *Report, opts HTMLOptions, outputPath string) error {
	html, err := GenerateHTMLString(rep, opts)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString renders rep and returns the page.
func GenerateHTMLString(rep *Report, opts HTMLOptions) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("report cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs(opts.Threshold)).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, htmlData{Report: rep, Threshold: opts.Threshold}); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// templateFuncs returns the template helper functions.
func templateFuncs(threshold float64) template.FuncMap {
	return template.FuncMap{
		"ms": formatMillis,
		"delta": func(v float64) string {
			return fmt.Sprintf("%+.2f ms", v)
		},
		"bandClass": func(v float64) string {
			switch output.Classify(v, threshold) {
			case output.BandFaster:
				return "faster"
			case output.BandSlower:
				return "slower"
			default:
				return "negligible"
			}
		},
		"band": func(v float64) string {
			return output.Classify(v, threshold).String()
		},
	}
}

// formatMillis formats a millisecond value with two decimals.
func formatMillis(v float64) string {
	return fmt.Sprintf("%.2f ms", v)
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.URL}} - Resource Hint Report</title>
    <style>
        :root {
            --bg-primary: #ffffff;
            --bg-secondary: #f8fafc;
            --text-primary: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
            --accent-success: #22c55e;
            --accent-warning: #f59e0b;
            --accent-error: #ef4444;
        }
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: var(--bg-secondary);
            color: var(--text-primary);
            line-height: 1.6;
        }
        .container { max-width: 1200px; margin: 0 auto; padding: 2rem; }
        h1 { font-size: 1.5rem; margin-bottom: 0.25rem; }
        h2 { font-size: 1.1rem; margin: 2rem 0 0.75rem; }
        .meta { color: var(--text-secondary); font-size: 0.9rem; }
        table { width: 100%; border-collapse: collapse; background: var(--bg-primary); }
        th, td { padding: 0.5rem 0.75rem; border-bottom: 1px solid var(--border-color); text-align: right; }
        th:first-child, td:first-child { text-align: left; }
        .faster { color: var(--accent-success); font-weight: 600; }
        .slower { color: var(--accent-error); font-weight: 600; }
        .negligible { color: var(--accent-warning); }
        code { font-size: 0.85rem; }
    </style>
</head>
<body>
<div class="container">
    <h1>Resource hints: {{.URL}}</h1>
    <p class="meta">
        Report {{.ID}} &middot; started {{.StartedAt.Format "2006-01-02 15:04:05 MST"}} &middot;
        {{.Runs}} runs per variant &middot; took {{.Duration}} &middot; threshold {{ms .Threshold}}
    </p>

    <h2>Overall</h2>
    <table>
        <thead>
            <tr><th>Milestone</th><th>Mean with hints</th><th>Variance</th><th>Mean without hints</th><th>Variance</th><th>Delta</th><th></th></tr>
        </thead>
        <tbody>
            <tr>
                <td>domContentLoaded</td>
                <td>{{ms .Overall.MeanDOMWith}}</td><td>{{printf "%.2f" .Overall.VarDOMWith}}</td>
                <td>{{ms .Overall.MeanDOMNo}}</td><td>{{printf "%.2f" .Overall.VarDOMNo}}</td>
                <td class="{{bandClass .Overall.DeltaDOM}}">{{delta .Overall.DeltaDOM}}</td>
                <td class="{{bandClass .Overall.DeltaDOM}}">{{band .Overall.DeltaDOM}}</td>
            </tr>
            <tr>
                <td>load</td>
                <td>{{ms .Overall.MeanLoadWith}}</td><td>{{printf "%.2f" .Overall.VarLoadWith}}</td>
                <td>{{ms .Overall.MeanLoadNo}}</td><td>{{printf "%.2f" .Overall.VarLoadNo}}</td>
                <td class="{{bandClass .Overall.DeltaLoad}}">{{delta .Overall.DeltaLoad}}</td>
                <td class="{{bandClass .Overall.DeltaLoad}}">{{band .Overall.DeltaLoad}}</td>
            </tr>
        </tbody>
    </table>

    <h2>Resources</h2>
    {{if .Resources}}
    <table>
        <thead>
            <tr><th>Resource</th><th>Metric</th><th>With hints</th><th>Without hints</th><th>Delta</th><th></th></tr>
        </thead>
        <tbody>
        {{range .Resources}}
            <tr>
                <td rowspan="3"><code>{{.Href}}</code><br><span class="meta">{{.Rel}}</span></td>
                <td>dns</td><td>{{ms .AvgDNSWith}}</td><td>{{ms .AvgDNSNo}}</td>
                <td class="{{bandClass .DeltaDNS}}">{{delta .DeltaDNS}}</td><td class="{{bandClass .DeltaDNS}}">{{band .DeltaDNS}}</td>
            </tr>
            <tr>
                <td>tcp</td><td>{{ms .AvgTCPWith}}</td><td>{{ms .AvgTCPNo}}</td>
                <td class="{{bandClass .DeltaTCP}}">{{delta .DeltaTCP}}</td><td class="{{bandClass .DeltaTCP}}">{{band .DeltaTCP}}</td>
            </tr>
            <tr>
                <td>ttfb</td><td>{{ms .AvgTTFBWith}}</td><td>{{ms .AvgTTFBNo}}</td>
                <td class="{{bandClass .DeltaTTFB}}">{{delta .DeltaTTFB}}</td><td class="{{bandClass .DeltaTTFB}}">{{band .DeltaTTFB}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>
    {{else}}
    <p class="meta">No hinted resource was fetched by both variants.</p>
    {{end}}

    {{with .Distribution}}
    <h2>Distribution</h2>
    <table>
        <thead>
            <tr><th>Series</th><th>min</th><th>p50</th><th>p90</th><th>p99</th><th>max</th></tr>
        </thead>
        <tbody>
            {{with .WithHints.DOMContentLoaded}}<tr><td>with-hints domContentLoaded</td><td>{{ms .Min}}</td><td>{{ms .P50}}</td><td>{{ms .P90}}</td><td>{{ms .P99}}</td><td>{{ms .Max}}</td></tr>{{end}}
            {{with .NoHints.DOMContentLoaded}}<tr><td>no-hints domContentLoaded</td><td>{{ms .Min}}</td><td>{{ms .P50}}</td><td>{{ms .P90}}</td><td>{{ms .P99}}</td><td>{{ms .Max}}</td></tr>{{end}}
            {{with .WithHints.Load}}<tr><td>with-hints load</td><td>{{ms .Min}}</td><td>{{ms .P50}}</td><td>{{ms .P90}}</td><td>{{ms .P99}}</td><td>{{ms .Max}}</td></tr>{{end}}
            {{with .NoHints.Load}}<tr><td>no-hints load</td><td>{{ms .Min}}</td><td>{{ms .P50}}</td><td>{{ms .P90}}</td><td>{{ms .P99}}</td><td>{{ms .Max}}</td></tr>{{end}}
        </tbody>
    </table>
    {{end}}
</div>
</body>
</html>
`

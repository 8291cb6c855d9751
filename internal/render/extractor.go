package render

import (
	"encoding/json"
	"fmt"
)

// extractorTemplate locates hint links and returns the raw PerformanceEntry
// fields needed to derive dns/tcp/ttfb and the navigation milestones. Fields
// are copied only when numeric so the decoder can tell missing from zero.
//
// Payload shape:
//
//	{"hints": [{"href", "rel", "index", "timing": {...} | null}],
//	 "navigation": {"startTime", "domContentLoadedEventEnd", "loadEventEnd"} | null}
const extractorTemplate = `(async () => {
  const rels = %s;
  const pick = (e, keys) => {
    const o = {};
    for (const k of keys) { if (typeof e[k] === 'number') { o[k] = e[k]; } }
    return o;
  };
  const nav = () => performance.getEntriesByType('navigation')[0];
  for (let i = 0; i < 200; i++) {
    const n = nav();
    if (n && n.loadEventEnd > 0) { break; }
    await new Promise(r => setTimeout(r, 10));
  }
  const selector = rels.map(r => 'link[rel~="' + r + '" i]').join(',');
  const links = selector ? Array.from(document.querySelectorAll(selector)) : [];
  const entries = performance.getEntriesByType('resource');
  const resourceKeys = ['startTime', 'domainLookupStart', 'domainLookupEnd', 'connectStart', 'connectEnd', 'responseStart'];
  const hints = links.map((link, index) => {
    const entry = entries.find(e => e.name === link.href);
    return { href: link.href, rel: link.getAttribute('rel') || '', index: index, timing: entry ? pick(entry, resourceKeys) : null };
  });
  const n = nav();
  return {
    hints: hints,
    navigation: n ? pick(n, ['startTime', 'domContentLoadedEventEnd', 'loadEventEnd']) : null
  };
})()`

// Script renders the extractor JavaScript for spec.
func (s ExtractorSpec) Script() (string, error) {
	rels := s.RelTypes
	if rels == nil {
		rels = []string{}
	}
	encoded, err := json.Marshal(rels)
	if err != nil {
		return "", fmt.Errorf("failed to encode rel types: %w", err)
	}
	return fmt.Sprintf(extractorTemplate, encoded), nil
}

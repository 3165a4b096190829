// Package adminurl builds links into the admin area.
package adminurl

import (
	"net/url"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"parent-products/internal/config"
)

type Builder struct {
	baseURL   string
	frontName string
}

func NewBuilder(cfg config.AdminConfig) *Builder {
	front := strings.Trim(cfg.FrontName, "/")
	if front == "" {
		front = "admin"
	}
	return &Builder{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		frontName: front,
	}
}

// GetURL returns the admin URL for a "module/controller/action" route. Missing
// route parts default to "index"; params are appended as /key/value pairs in
// key order.
func (b *Builder) GetURL(route string, params map[string]any) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	for len(parts) < 3 {
		parts = append(parts, "index")
	}
	for i, p := range parts {
		if p == "" {
			parts[i] = "index"
		}
	}

	var sb strings.Builder
	sb.WriteString(b.baseURL)
	sb.WriteString("/")
	sb.WriteString(b.frontName)
	for _, p := range parts[:3] {
		sb.WriteString("/")
		sb.WriteString(p)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := cast.ToString(params[k])
		if v == "" {
			continue
		}
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(k))
		sb.WriteString("/")
		sb.WriteString(url.PathEscape(v))
	}
	return sb.String()
}

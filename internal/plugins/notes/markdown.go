package notes

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
	"github.com/marcus/notehub/internal/styles"
)

// maxRenderCache bounds the number of rendered notes kept around.
const maxRenderCache = 64

type renderCacheKey struct {
	hash  uint64
	width int
}

// renderMarkdown renders note content for the detail modal. Output is
// cached per content and width; on any renderer error the raw content is
// returned.
func (p *Plugin) renderMarkdown(content string, width int) string {
	key := renderCacheKey{hash: xxhash.Sum64String(content), width: width}
	if out, ok := p.renderCache[key]; ok {
		return out
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.MarkdownTheme),
		glamour.WithWordWrap(max(10, width-2)),
	)
	if err != nil {
		p.logger().Debug("notes: glamour init failed", "error", err)
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		p.logger().Debug("notes: markdown render failed", "error", err)
		return content
	}
	out = strings.Trim(out, "\n")

	if len(p.renderCache) >= maxRenderCache {
		clear(p.renderCache)
	}
	p.renderCache[key] = out
	return out
}

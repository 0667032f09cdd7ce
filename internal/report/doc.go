// Package report renders crawl summaries and the crawl journal.
//
// Three writers implement the Writer interface:
//   - TextWriter: plain text for the terminal
//   - MarkdownWriter: GitHub Flavored Markdown with tables and alerts
//   - JSONWriter: JSON for tool integration
//
// NewWriter selects one by name ("text", "markdown" or "json"). The data
// being rendered lives in the model package.
package report

package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern maps concrete paths to a low-cardinality template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

const uuidRe = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/articles/[^/]+$`), Template: "/api/articles/:id"},
	{Pattern: regexp.MustCompile(`^/api/refresh/all$`), Template: "/api/refresh/all"},
	{Pattern: regexp.MustCompile(`^/api/refresh/[^/]+$`), Template: "/api/refresh/:id"},
	{Pattern: regexp.MustCompile(`^/api/rss/list/[^/]+$`), Template: "/api/rss/list/:id"},
	{Pattern: regexp.MustCompile(`^/api/rss/newspaper/[^/]+$`), Template: "/api/rss/newspaper/:id"},

	{Pattern: regexp.MustCompile(`^/api/countries/\d+$`), Template: "/api/countries/:id"},
	{Pattern: regexp.MustCompile(`^/api/newspapers/\d+$`), Template: "/api/newspapers/:id"},
	{Pattern: regexp.MustCompile(`^/api/lists/` + uuidRe + `$`), Template: "/api/lists/:id"},
	{Pattern: regexp.MustCompile(`^/api/lists/` + uuidRe + `/filters/(authors|categories)$`), Template: "/api/lists/:id/filters/:kind"},

	{Pattern: regexp.MustCompile(`^/process_one_newspaper/[^/]+$`), Template: "/process_one_newspaper/:id"},
}

// NormalizePath replaces ids in path so that metrics keep a bounded label set.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}

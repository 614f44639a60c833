package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/actuallystonmai/ranking-service/internal/domain"
)

type indexData struct {
	APIBase string
	Overall string
	Tags    []string
}

// Index renders the ranking page shell. The ranking itself is filled in by
// the page client.
type Index struct {
	page []byte
}

// NewIndex renders the page once for the given menu tags and ranking API base.
func NewIndex(tags []string, apiBase string) (*Index, error) {
	tmpl, err := template.ParseFS(webFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	menu := make([]string, 0, len(tags))
	for _, t := range tags {
		if domain.IsOverall(t) || domain.ValidateTag(t) != nil {
			continue
		}
		menu = append(menu, t)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, indexData{APIBase: apiBase, Overall: domain.OverallTag, Tags: menu}); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}
	return &Index{page: buf.Bytes()}, nil
}

func (i *Index) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(i.page)
}

package tdbhttp

import (
	"fmt"
	"net/url"
)

// Spec names a target resource: an organization/database pair plus an
// optional branch and an optional pinned commit (spec §4.3 "When
// spec.commit is set, the path is rewritten to /local/commit/{hash}").
type Spec struct {
	Org    string
	DB     string
	Branch string
	Commit string
}

// WithBranch returns a copy of s targeting branch instead of the default.
func (s Spec) WithBranch(branch string) Spec {
	s.Branch = branch
	return s
}

// AtCommit returns a copy of s pinned to commit (for time-travel reads).
func (s Spec) AtCommit(commit string) Spec {
	s.Commit = commit
	return s
}

func (s Spec) ref() string {
	if s.Commit != "" {
		return fmt.Sprintf("local/commit/%s", s.Commit)
	}
	if s.Branch != "" {
		return fmt.Sprintf("local/branch/%s", s.Branch)
	}
	return ""
}

// dbPath builds the db/{org}/{db} lifecycle path.
func (s Spec) dbPath() string {
	return joinPath("db", s.Org, s.DB)
}

// documentPath builds the document/{org}/{db}[/local/commit/{hash}] path.
func (s Spec) documentPath() string {
	return joinPath("document", s.Org, s.DB, s.ref())
}

// woqlPath builds the woql[/{org}/{db}] path; an empty Org/DB targets
// the server-wide unscoped endpoint.
func (s Spec) woqlPath() string {
	if s.Org == "" && s.DB == "" {
		return "woql"
	}
	return joinPath("woql", s.Org, s.DB)
}

// graphqlPath builds the graphql/{db}[/local/branch/{branch}] path.
func (s Spec) graphqlPath() string {
	if s.Branch != "" {
		return joinPath("graphql", s.DB, "local/branch", s.Branch)
	}
	return joinPath("graphql", s.DB)
}

// logPath builds the log/{org}/{db} path.
func (s Spec) logPath() string {
	return joinPath("log", s.Org, s.DB)
}

// documentWriteParams holds the query string for a document write:
// ?author=&message=&graph_type=&create=true.
type documentWriteParams struct {
	Author    string
	Message   string
	GraphType string
	Create    bool
}

func (p documentWriteParams) values() url.Values {
	v := url.Values{}
	if p.Author != "" {
		v.Set("author", p.Author)
	}
	if p.Message != "" {
		v.Set("message", p.Message)
	}
	if p.GraphType != "" {
		v.Set("graph_type", p.GraphType)
	}
	if p.Create {
		v.Set("create", "true")
	}
	return v
}

// documentReadParams builds the query string for a document read:
// ?id=&unfold=&as_list=.
type documentReadParams struct {
	ID     string
	Unfold bool
	AsList bool
}

func (p documentReadParams) values() url.Values {
	v := url.Values{}
	if p.ID != "" {
		v.Set("id", p.ID)
	}
	if p.Unfold {
		v.Set("unfold", "true")
	}
	if p.AsList {
		v.Set("as_list", "true")
	}
	return v
}

// logParams builds the query string for a history read: ?start=&count=&verbose=.
type logParams struct {
	Start   int
	Count   int
	Verbose bool
}

func (p logParams) values() url.Values {
	v := url.Values{}
	if p.Start > 0 {
		v.Set("start", fmt.Sprintf("%d", p.Start))
	}
	if p.Count > 0 {
		v.Set("count", fmt.Sprintf("%d", p.Count))
	}
	if p.Verbose {
		v.Set("verbose", "true")
	}
	return v
}

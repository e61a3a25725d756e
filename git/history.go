package git

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Commit is one history record, produced only by Log.
type Commit struct {
	Subject string    // First line of the commit message
	Body    string    // Remaining message, may span lines
	Date    time.Time // Author date
	Hash    string    // Full commit SHA
}

// ShortHash returns the abbreviated commit SHA for display.
func (c Commit) ShortHash() string {
	if len(c.Hash) < 7 {
		return c.Hash
	}
	return c.Hash[:7]
}

// Tag is a named ref, optionally with the commit it points at.
type Tag struct {
	Name string
	Hash string
}

// delimiters holds the sentinel tokens embedded in a requested git output
// format. Fresh UUIDs make a collision with commit content improbable, so
// newline-bearing bodies never corrupt field or record boundaries.
type delimiters struct {
	field  string
	record string
}

func newDelimiters() delimiters {
	return delimiters{
		field:  uuid.NewString(),
		record: uuid.NewString(),
	}
}

// split breaks raw output into records, stripping the trailing record
// delimiter and trailing newline first. Empty trailing records are dropped.
func (d delimiters) split(raw string) [][]string {
	raw = strings.TrimRight(raw, "\n")
	raw = strings.TrimSuffix(raw, d.record)

	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var records [][]string
	for _, rec := range strings.Split(raw, d.record) {
		rec = strings.TrimPrefix(rec, "\n")
		if strings.TrimSpace(rec) == "" {
			continue
		}
		records = append(records, strings.Split(rec, d.field))
	}
	return records
}

// Log returns commits reachable from HEAD in chronological (oldest first)
// order. When since is non-empty, only commits strictly after that hash are
// returned. When pathScope is non-empty, history is restricted to that path.
func (g *Context) Log(since, pathScope string) ([]Commit, error) {
	d := newDelimiters()
	format := strings.Join([]string{"%s", "%b", "%aI", "%H"}, d.field) + d.record

	args := []string{"log", "--format=" + format}
	if since != "" {
		args = append(args, since+"..HEAD")
	}
	if pathScope != "" {
		args = append(args, "--", pathScope)
	}

	out, err := g.runGit("log", args...)
	if err != nil {
		return nil, err
	}

	var commits []Commit
	for _, fields := range d.split(out) {
		// Malformed records (wrong arity) are discarded rather than
		// misparsed into a bogus commit.
		if len(fields) != 4 {
			continue
		}
		date, derr := time.Parse(time.RFC3339, strings.TrimSpace(fields[2]))
		if derr != nil {
			continue
		}
		commits = append(commits, Commit{
			Subject: strings.TrimSpace(fields[0]),
			Body:    strings.TrimSpace(fields[1]),
			Date:    date,
			Hash:    strings.TrimSpace(fields[3]),
		})
	}

	// git log emits newest first; callers want chronological order.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}

	return commits, nil
}

// Tags returns tags matching the prefix that are merged into HEAD. Tags on
// unmerged branches are invisible to the release run.
func (g *Context) Tags(prefix string) ([]Tag, error) {
	d := newDelimiters()
	format := "%(refname:strip=2)" + d.field + "%(objectname)" + d.record

	args := []string{"tag", "--list", "--merged", "HEAD", "--format=" + format}
	if prefix != "" {
		args = append(args, prefix+"*")
	}

	out, err := g.runGit("list tags", args...)
	if err != nil {
		return nil, err
	}

	var tags []Tag
	for _, fields := range d.split(out) {
		if len(fields) != 2 {
			continue
		}
		name := strings.TrimSpace(fields[0])
		if name == "" {
			continue
		}
		tags = append(tags, Tag{
			Name: name,
			Hash: strings.TrimSpace(fields[1]),
		})
	}

	return tags, nil
}

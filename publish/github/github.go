// Package github publishes GitHub releases for the tags a release run
// created.
package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/randalmurphal/shipwright/publish"
)

// Publisher implements publish.Publisher against the GitHub releases API.
type Publisher struct {
	client *github.Client
	owner  string
	repo   string
}

// New creates a GitHub publisher. token is a personal access token or
// GitHub App token.
func New(token, owner, repo string) (*Publisher, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(context.Background(), ts)

	return &Publisher{
		client: github.NewClient(tc),
		owner:  owner,
		repo:   repo,
	}, nil
}

// NewFromURL creates a GitHub publisher from a remote URL.
// Example: "https://github.com/acme/widgets.git"
func NewFromURL(token, remoteURL string) (*Publisher, error) {
	owner, repo, err := publish.SplitRepoPath(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	return New(token, owner, repo)
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return "github" }

// Publish creates one GitHub release per released unit, using the tag the
// run pushed and the unit's rendered changelog section as release notes.
func (p *Publisher) Publish(ctx context.Context, set publish.Set) error {
	for _, rel := range set.Releases {
		release := &github.RepositoryRelease{
			TagName: github.String(rel.TagName),
			Name:    github.String(rel.TagName),
			Body:    github.String(rel.Notes),
		}

		_, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, release)
		if err != nil {
			return fmt.Errorf("create release %s: %w", rel.TagName, err)
		}
	}
	return nil
}

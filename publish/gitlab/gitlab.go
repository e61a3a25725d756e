// Package gitlab publishes GitLab releases for the tags a release run
// created.
package gitlab

import (
	"context"
	"fmt"

	gitlab "github.com/xanzy/go-gitlab"

	"github.com/randalmurphal/shipwright/publish"
)

// Publisher implements publish.Publisher against the GitLab releases API.
type Publisher struct {
	client    *gitlab.Client
	projectID string // "namespace/project"
}

// New creates a GitLab publisher. baseURL is the GitLab instance URL
// (empty for gitlab.com).
func New(token, baseURL, projectID string) (*Publisher, error) {
	if token == "" {
		return nil, fmt.Errorf("GitLab token is required")
	}
	if projectID == "" {
		return nil, fmt.Errorf("project ID is required")
	}

	var (
		client *gitlab.Client
		err    error
	)
	if baseURL != "" {
		client, err = gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	} else {
		client, err = gitlab.NewClient(token)
	}
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return &Publisher{client: client, projectID: projectID}, nil
}

// NewFromURL creates a GitLab publisher from a remote URL.
// Example: "git@gitlab.com:namespace/project.git"
func NewFromURL(token, baseURL, remoteURL string) (*Publisher, error) {
	owner, repo, err := publish.SplitRepoPath(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("parse remote URL: %w", err)
	}
	return New(token, baseURL, owner+"/"+repo)
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return "gitlab" }

// Publish creates one GitLab release per released unit.
func (p *Publisher) Publish(ctx context.Context, set publish.Set) error {
	for _, rel := range set.Releases {
		opts := &gitlab.CreateReleaseOptions{
			Name:        gitlab.Ptr(rel.TagName),
			TagName:     gitlab.Ptr(rel.TagName),
			Description: gitlab.Ptr(rel.Notes),
		}

		_, _, err := p.client.Releases.CreateRelease(p.projectID, opts, gitlab.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("create release %s: %w", rel.TagName, err)
		}
	}
	return nil
}

package shipwright

import (
	"fmt"
	"os"

	"github.com/randalmurphal/shipwright/config"
	"github.com/randalmurphal/shipwright/publish"
	githubpub "github.com/randalmurphal/shipwright/publish/github"
	gitlabpub "github.com/randalmurphal/shipwright/publish/gitlab"
	s3pub "github.com/randalmurphal/shipwright/publish/s3"
)

// buildPublishers instantiates the configured publish plugins in declared
// order. Hosting publishers take credentials from the conventional CI
// environment variables rather than the config file.
func buildPublishers(cfg *config.Config, remoteURL string) ([]publish.Publisher, error) {
	var publishers []publish.Publisher

	for _, pl := range cfg.Plugins {
		switch pl.Name {
		case "s3":
			var c s3pub.Config
			if err := pl.DecodeOptions(&c); err != nil {
				return nil, fmt.Errorf("s3 plugin options: %w", err)
			}
			publishers = append(publishers, s3pub.New(c))

		case "github":
			p, err := githubpub.NewFromURL(os.Getenv("GITHUB_TOKEN"), remoteURL)
			if err != nil {
				return nil, fmt.Errorf("github plugin: %w", err)
			}
			publishers = append(publishers, p)

		case "gitlab":
			p, err := gitlabpub.NewFromURL(os.Getenv("GITLAB_TOKEN"), os.Getenv("CI_SERVER_URL"), remoteURL)
			if err != nil {
				return nil, fmt.Errorf("gitlab plugin: %w", err)
			}
			publishers = append(publishers, p)

		default:
			return nil, fmt.Errorf("unknown publish plugin %q", pl.Name)
		}
	}
	return publishers, nil
}

// Package s3 publishes release artifacts to an S3 bucket. It is the
// reference object-storage publisher: each release's artifact tree is
// uploaded once per configured destination template.
package s3

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	awss3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/blang/semver/v4"

	"github.com/randalmurphal/shipwright/publish"
)

// Config describes where artifacts land.
type Config struct {
	// Bucket is the destination bucket name.
	Bucket string `yaml:"bucket"`

	// BaseFolder is the key prefix inside the bucket.
	BaseFolder string `yaml:"baseFolder"`

	// FileNameTemplates are destination folder templates, applied in
	// order; each produces one copy of the artifact tree. Supported
	// placeholders: {name}, {version}, {version.major}, {version.minor},
	// {releaseChannel}.
	FileNameTemplates []string `yaml:"fileNameTemplates"`

	// Exclude lists path globs (relative to the artifact root) that are
	// never uploaded.
	Exclude []string `yaml:"exclude"`

	// SourceDir is the artifact directory relative to the repository
	// root. Empty means the released workspace's own directory.
	SourceDir string `yaml:"sourceDir"`
}

// uploaderAPI is the slice of s3manager.Uploader the publisher uses,
// extracted so tests can substitute a recorder.
type uploaderAPI interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// Publisher implements publish.Publisher for S3.
type Publisher struct {
	cfg      Config
	uploader uploaderAPI
}

// Option configures Publisher.
type Option func(*Publisher)

// WithAWSConfig sets the AWS client configuration.
func WithAWSConfig(awsCfg *aws.Config) Option {
	return func(p *Publisher) {
		p.uploader = s3manager.NewUploaderWithClient(
			awss3.New(session.Must(session.NewSession(awsCfg))))
	}
}

// WithUploader injects an uploader. Primarily for tests.
func WithUploader(u uploaderAPI) Option {
	return func(p *Publisher) {
		p.uploader = u
	}
}

// New creates the S3 publisher. Without options the default AWS session
// configuration is used.
func New(cfg Config, opts ...Option) *Publisher {
	p := &Publisher{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.uploader == nil {
		p.uploader = s3manager.NewUploaderWithClient(
			awss3.New(session.Must(session.NewSession())))
	}
	return p
}

// Name implements publish.Publisher.
func (p *Publisher) Name() string { return "s3" }

// Publish uploads each release's artifact tree to every destination the
// templates expand to.
func (p *Publisher) Publish(ctx context.Context, set publish.Set) error {
	for _, rel := range set.Releases {
		srcDir := p.cfg.SourceDir
		if srcDir == "" {
			srcDir = rel.Path
		}
		root := filepath.Join(set.RepoPath, srcDir)

		files, err := collectArtifacts(root, p.cfg.Exclude)
		if err != nil {
			return fmt.Errorf("collect artifacts for %s: %w", rel.Name, err)
		}

		for _, tmpl := range p.cfg.FileNameTemplates {
			dest, err := ExpandTemplate(tmpl, rel, set.Channel)
			if err != nil {
				return err
			}
			for _, f := range files {
				if err := p.upload(ctx, root, f, dest); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *Publisher) upload(ctx context.Context, root, relPath, dest string) error {
	f, err := os.Open(filepath.Join(root, relPath))
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	key := path.Join(p.cfg.BaseFolder, dest, filepath.ToSlash(relPath))
	_, err = p.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// ExpandTemplate substitutes the destination placeholders for a release.
// Unknown placeholders are an error rather than silently passed through.
func ExpandTemplate(tmpl string, rel publish.Release, channel string) (string, error) {
	v, err := semver.ParseTolerant(rel.Version)
	if err != nil {
		return "", fmt.Errorf("release version %q: %w", rel.Version, err)
	}

	replacer := strings.NewReplacer(
		"{name}", rel.Name,
		"{version}", rel.Version,
		"{version.major}", fmt.Sprintf("%d", v.Major),
		"{version.minor}", fmt.Sprintf("%d", v.Minor),
		"{releaseChannel}", channel,
	)
	out := replacer.Replace(tmpl)

	if i := strings.IndexByte(out, '{'); i >= 0 {
		return "", fmt.Errorf("unknown placeholder in template %q", tmpl)
	}
	return out, nil
}

// collectArtifacts walks the artifact root and returns relative file paths,
// skipping excluded globs.
func collectArtifacts(root string, exclude []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		for _, glob := range exclude {
			if ok, _ := path.Match(glob, rel); ok {
				return nil
			}
			// Also match against the basename so "*.map" excludes
			// nested files.
			if ok, _ := path.Match(glob, path.Base(rel)); ok {
				return nil
			}
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

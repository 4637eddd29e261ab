// Package mslstore materializes taxonomy release snapshots from a
// git-backed store: one YAML artifact per entity, one commit and tag per
// release. The checkout used during materialization mutates shared working
// state, so all store operations are serialized behind a single mutex and
// callers only ever see immutable Snapshot values.
package mslstore

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	gocache "github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/errors"
	"github.com/mslgit/mslgit-go/internal/logging"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// Store provides read access to committed taxonomy releases and a thin
// ingest writer. Concurrent use of one Store is safe; the internal mutex
// serializes the destructive checkout/restore cycle.
type Store struct {
	path          string
	defaultBranch string
	authorName    string
	authorEmail   string

	repo    *git.Repository
	mu      sync.Mutex
	cache   *gocache.Cache
	logger  *slog.Logger
	metrics *metrics.StoreMetrics
}

// New opens the store at the configured path, initializing a fresh
// repository when none exists.
func New(settings *conf.Settings, m *metrics.StoreMetrics) (*Store, error) {
	repo, err := git.PlainOpen(settings.Store.Path)
	if err == git.ErrRepositoryNotExists {
		repo, err = git.PlainInit(settings.Store.Path, false)
	}
	if err != nil {
		return nil, errors.Newf("opening taxonomy repository at %s: %v", settings.Store.Path, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Context("path", settings.Store.Path).
			Build()
	}

	ttl := gocache.NoExpiration
	if settings.Store.CacheTTL > 0 {
		ttl = time.Duration(settings.Store.CacheTTL) * time.Minute
	}

	return &Store{
		path:          settings.Store.Path,
		defaultBranch: settings.Store.DefaultBranch,
		authorName:    settings.Store.AuthorName,
		authorEmail:   settings.Store.AuthorEmail,
		repo:          repo,
		cache:         gocache.New(ttl, 10*time.Minute),
		logger:        logging.ForService("mslstore"),
		metrics:       m,
	}, nil
}

// GetSnapshot materializes the complete entity set tagged with the given
// version label. Results are cached per label; repeated restoration is
// expensive. The working tree is restored to the default branch before
// returning.
func (s *Store) GetSnapshot(label string) (*taxonomy.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache.Get(label); ok {
		s.metrics.RecordCacheHit()
		return cached.(*taxonomy.Snapshot), nil
	}
	s.metrics.RecordCacheMiss()

	start := time.Now()
	snapshot, err := s.loadSnapshot(label)
	if err != nil {
		s.metrics.RecordSnapshotLoad(label, "error", 0, time.Since(start))
		return nil, err
	}
	s.metrics.RecordSnapshotLoad(label, "success", snapshot.Len(), time.Since(start))

	s.cache.SetDefault(label, snapshot)
	s.logger.Info("snapshot loaded",
		"version", label,
		"entities", snapshot.Len(),
		"duration_ms", time.Since(start).Milliseconds())
	return snapshot, nil
}

// loadSnapshot performs the checkout-read-restore cycle. Callers hold the
// mutex.
func (s *Store) loadSnapshot(label string) (*taxonomy.Snapshot, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision("refs/tags/" + label))
	if err != nil {
		return nil, errors.Newf("version %q has no tag in the taxonomy repository", label).
			Category(errors.CategoryVersionNotFound).
			Component("mslstore").
			Context("label", label).
			Build()
	}

	worktree, err := s.repo.Worktree()
	if err != nil {
		return nil, errors.Newf("accessing worktree: %v", err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}

	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return nil, errors.Newf("checking out version %q: %v", label, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Context("label", label).
			Build()
	}
	// restore the neutral branch whatever happens past this point
	defer func() {
		if err := s.restoreDefaultBranch(worktree); err != nil {
			s.logger.Error("failed to restore default branch", "error", err)
		}
	}()

	snapshot := taxonomy.NewSnapshot(label)
	err = filepath.WalkDir(s.path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == git.GitDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".yaml") {
			return nil
		}

		entity, err := readArtifact(path)
		if err != nil {
			// a single bad artifact never fails the whole load
			s.metrics.RecordArtifactSkip()
			s.logger.Warn("skipping corrupt entity artifact", "path", path, "error", err)
			return nil
		}
		if entity.Name == "" {
			s.metrics.RecordArtifactSkip()
			s.logger.Warn("skipping entity artifact without a name", "path", path)
			return nil
		}
		if entity.Meta.SourceVersion == "" {
			entity.Meta.SourceVersion = label
		}
		snapshot.Add(entity)
		return nil
	})
	if err != nil {
		return nil, errors.Newf("walking snapshot tree for %q: %v", label, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Context("label", label).
			Build()
	}

	return snapshot, nil
}

func readArtifact(path string) (*taxonomy.Entity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entity taxonomy.Entity
	if err := yaml.Unmarshal(data, &entity); err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryCorruptArtifact).
			Component("mslstore").
			Context("path", path).
			Build()
	}
	return &entity, nil
}

func (s *Store) restoreDefaultBranch(worktree *git.Worktree) error {
	return worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(s.defaultBranch),
		Force:  true,
	})
}

// ListVersions returns all release labels in the store, sorted.
func (s *Store) ListVersions() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	iter, err := s.repo.Tags()
	if err != nil {
		return nil, errors.Newf("listing tags: %v", err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}

	var labels []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		labels = append(labels, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, errors.Newf("iterating tags: %v", err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}
	sort.Strings(labels)
	return labels, nil
}

// CommitSnapshot persists a release as one atomic commit tagged with the
// snapshot's version label. The working tree is replaced wholesale: a
// release is a complete statement of the taxonomy, not a delta.
func (s *Store) CommitSnapshot(snapshot *taxonomy.Snapshot) error {
	if snapshot == nil || snapshot.Version == "" {
		return errors.Newf("snapshot must carry a version label").
			Category(errors.CategoryValidation).
			Component("mslstore").
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Tag(snapshot.Version); err == nil {
		return errors.Newf("version %q is already committed", snapshot.Version).
			Category(errors.CategoryValidation).
			Component("mslstore").
			Context("label", snapshot.Version).
			Build()
	}

	worktree, err := s.repo.Worktree()
	if err != nil {
		return errors.Newf("accessing worktree: %v", err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}

	if err := s.clearWorkingTree(); err != nil {
		return err
	}
	for _, name := range snapshot.Names() {
		entity, _ := snapshot.Get(name)
		if err := s.writeArtifact(entity); err != nil {
			return err
		}
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return errors.Newf("staging release %q: %v", snapshot.Version, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}

	commit, err := worktree.Commit("taxonomy release "+snapshot.Version, &git.CommitOptions{
		Author: &object.Signature{
			Name:  s.authorName,
			Email: s.authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return errors.Newf("committing release %q: %v", snapshot.Version, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}

	if _, err := s.repo.CreateTag(snapshot.Version, commit, nil); err != nil {
		return errors.Newf("tagging release %q: %v", snapshot.Version, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}

	s.cache.Delete(snapshot.Version)
	s.logger.Info("release committed",
		"version", snapshot.Version,
		"entities", snapshot.Len(),
		"commit", commit.String())
	return nil
}

// clearWorkingTree removes everything in the working tree except the git
// directory, so the next commit is a complete release.
func (s *Store) clearWorkingTree() error {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return errors.Newf("reading working tree: %v", err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}
	for _, entry := range entries {
		if entry.Name() == git.GitDirName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.path, entry.Name())); err != nil {
			return errors.Newf("clearing working tree: %v", err).
				Category(errors.CategoryStoreIO).
				Component("mslstore").
				Build()
		}
	}
	return nil
}

func (s *Store) writeArtifact(entity *taxonomy.Entity) error {
	relPath := entity.ArtifactPath()
	fullPath := filepath.Join(s.path, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return errors.Newf("creating artifact directory for %q: %v", entity.Name, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}
	data, err := yaml.Marshal(entity)
	if err != nil {
		return errors.Newf("encoding artifact for %q: %v", entity.Name, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return errors.Newf("writing artifact for %q: %v", entity.Name, err).
			Category(errors.CategoryStoreIO).
			Component("mslstore").
			Build()
	}
	return nil
}

package usecase

import (
	"context"

	"github.com/compozy/docspub/internal/domain"
	"github.com/compozy/docspub/internal/repository"
)

// ResolveReleaseUseCase determines whether the commit being published is a
// tagged release.
type ResolveReleaseUseCase struct {
	GitRepo repository.GitRepository
}

// Execute resolves the tag state for HEAD. The returned release is always
// usable: on a resolution failure it is untagged and the error is returned
// alongside so the caller can log it and carry on.
func (uc *ResolveReleaseUseCase) Execute(ctx context.Context, ciRef string) (*domain.Release, error) {
	rel := &domain.Release{State: domain.TagStateUntagged, CIRef: ciRef}
	tag, ok, err := uc.GitRepo.TagForHead(ctx)
	if err != nil {
		return rel, err
	}
	if !ok {
		return rel, nil
	}
	rel.State = domain.TagStateTagged
	rel.TagName = tag
	// Non-semver tags still promote; the parsed version is journal metadata.
	if v, parseErr := domain.ParseTagVersion(tag); parseErr == nil {
		rel.Version = v
	}
	return rel, nil
}

package usecase

import (
	"fmt"

	"github.com/compozy/docspub/internal/domain"
	"github.com/compozy/docspub/internal/repository"
)

// SyncStagingUseCase copies the build output into the staging
// subdirectory. It runs on every publish, tagged or not.
type SyncStagingUseCase struct {
	Fs repository.FileSystemRepository
}

// Execute runs the use case.
func (uc *SyncStagingUseCase) Execute(buildDir, stagingDir string) error {
	if err := repository.CopyDir(uc.Fs, buildDir, stagingDir); err != nil {
		return fmt.Errorf("%w: build output to staging: %v", domain.ErrCopyFailed, err)
	}
	return nil
}

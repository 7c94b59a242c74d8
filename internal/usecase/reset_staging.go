package usecase

import (
	"fmt"

	"github.com/compozy/docspub/internal/repository"
)

// ResetStagingUseCase clears the staging subdirectory and recreates it
// empty, so the following sync is a clean overwrite with no leftovers from
// a previous run.
type ResetStagingUseCase struct {
	Fs repository.FileSystemRepository
}

// Execute runs the use case.
func (uc *ResetStagingUseCase) Execute(stagingDir string) error {
	if err := repository.ResetDir(uc.Fs, stagingDir, 0755); err != nil {
		return fmt.Errorf("failed to reset staging directory: %w", err)
	}
	return nil
}

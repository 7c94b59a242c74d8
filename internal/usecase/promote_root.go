package usecase

import (
	"fmt"

	"github.com/compozy/docspub/internal/domain"
	"github.com/compozy/docspub/internal/repository"
)

// PromoteRootUseCase copies the build output over the repository root,
// overwriting what is there. It only runs for tagged commits: promotion
// marks the documentation of a released version.
type PromoteRootUseCase struct {
	Fs repository.FileSystemRepository
}

// Execute runs the use case.
func (uc *PromoteRootUseCase) Execute(buildDir string) error {
	if err := repository.CopyDir(uc.Fs, buildDir, "."); err != nil {
		return fmt.Errorf("%w: build output to repository root: %v", domain.ErrCopyFailed, err)
	}
	return nil
}

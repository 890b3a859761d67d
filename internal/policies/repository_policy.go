package policies

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"package-pruner/internal/types"
)

// RepositoryPolicy decides whether a fetched repository may be pruned at all.
type RepositoryPolicy struct {
	AllowPublic bool
}

func NewRepositoryPolicy(allowPublic bool) RepositoryPolicy {
	return RepositoryPolicy{AllowPublic: allowPublic}
}

func (p RepositoryPolicy) CheckEligible(repo types.Repository) error {
	if repo.IsPrivate || p.AllowPublic {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodePermissionDenied).
		WithMsg(fmt.Sprintf("repository %s is public and removing public package versions is not enabled", repo.Ref))
}

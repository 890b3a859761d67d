package types

type RetentionPolicy struct {
	KeepCount              int
	RemoveSemanticVersions bool
}

// PruneConfig is the immutable input of a single prune run.
type PruneConfig struct {
	Repository  RepositoryRef
	Retention   RetentionPolicy
	AllowPublic bool
	DryRun      bool
	Packages    []string
}

type PackagePlan struct {
	Package        string
	TotalCount     int
	FetchedCount   int
	EffectiveCount int
	Skipped        bool
	SkipReason     string
	Delete         []PackageVersion
}

type PrunePlan struct {
	Repository RepositoryRef
	Packages   []PackagePlan
}

// DeleteCount is the number of versions the plan would remove.
func (p PrunePlan) DeleteCount() int {
	total := 0
	for _, pkg := range p.Packages {
		total += len(pkg.Delete)
	}
	return total
}

// RunResult lists removed versions as package:version in the order the
// deletions were issued.
type RunResult struct {
	Repository RepositoryRef
	Removed    []string
	DryRun     bool
}

// QualifiedRemoved returns the removed versions as owner/repo/package:version.
func (r RunResult) QualifiedRemoved() []string {
	out := make([]string, 0, len(r.Removed))
	for _, name := range r.Removed {
		out = append(out, r.Repository.String()+"/"+name)
	}
	return out
}

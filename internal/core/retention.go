package core

import "package-pruner/internal/types"

// LatestVersion is the conventional alias version that always survives pruning.
const LatestVersion = "latest"

// DockerBaseLayerVersion marks the shared base layer of container packages.
// Deleting it through the registry API breaks every image built on top of it,
// so it is excluded permanently. Matched as an exact string only.
const DockerBaseLayerVersion = "docker-base-layer"

// SelectForDeletion returns the versions that fall outside the retention
// window. versions must be ordered newest first; the first KeepCount entries
// are always kept. The relative order of the result matches the input.
func SelectForDeletion(versions []types.PackageVersion, policy types.RetentionPolicy) []types.PackageVersion {
	keep := policy.KeepCount
	if keep < 0 {
		keep = 0
	}
	if len(versions) <= keep {
		return nil
	}
	var selected []types.PackageVersion
	for _, version := range versions[keep:] {
		if isProtectedVersion(version.Version) {
			continue
		}
		if !policy.RemoveSemanticVersions && IsSemanticVersion(version.Version) {
			continue
		}
		selected = append(selected, version)
	}
	return selected
}

func isProtectedVersion(value string) bool {
	return value == LatestVersion || value == DockerBaseLayerVersion
}

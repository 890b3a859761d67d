package app

type PruneRequest struct {
	Repository       string
	Token            string
	KeepVersions     int
	RemoveSemver     bool
	AllowPublic      bool
	DryRun           bool
	Packages         []string
	RegistryBackend  string
	RegistryFile     string
	GraphQLURL       string
	HTTPTimeoutSec   int
	HTTPRetries      int
	HTTPRetryDelayMs int
}

type ValidateResult struct {
	Repository string
	Backend    string
	KeepCount  int
}
